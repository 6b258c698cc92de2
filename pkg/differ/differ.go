package differ

// Action tags a group of values in an edit script.
type Action uint8

const (
	Insert Action = iota // value exists only in the proposal
	Keep                 // value exists in both sequences
	Remove               // value exists only in the current sequence
)

// String returns the string representation of the Action.
func (a Action) String() string {
	switch a {
	case Insert:
		return "Insert"
	case Keep:
		return "Keep"
	case Remove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Equals reports whether a current value and a proposal value match.
type Equals[T any] func(current, proposal T) bool

// Table holds the longest-common-subsequence lengths of every suffix pair.
// Cell (i, j) is the LCS length of current[i:] and proposal[j:].
type Table struct {
	rows, cols int
	cells      []int
}

// Len returns the length of the longest common subsequence.
func (t *Table) Len() int {
	return t.at(0, 0)
}

func (t *Table) at(i, j int) int {
	return t.cells[i*t.cols+j]
}

// Change is one group of an edit script.
//
// Values holds current values for Keep and Remove groups and proposal values
// for Insert groups. For Keep groups Pairs[i] is the proposal value aligned
// with Values[i].
type Change[T any] struct {
	Action Action
	Values []T
	Pairs  []T
}

// GetTable computes the LCS table of current against proposal.
func GetTable[T any](current, proposal []T, equals Equals[T]) *Table {
	rows, cols := len(current)+1, len(proposal)+1
	t := &Table{rows: rows, cols: cols, cells: make([]int, rows*cols)}
	for i := len(current) - 1; i >= 0; i-- {
		for j := len(proposal) - 1; j >= 0; j-- {
			idx := i*cols + j
			if equals(current[i], proposal[j]) {
				t.cells[idx] = t.cells[idx+cols+1] + 1
			} else {
				t.cells[idx] = max(t.cells[idx+cols], t.cells[idx+1])
			}
		}
	}
	return t
}

// GetChanges walks the table and returns the edit script, grouping
// consecutive values with the same action. Every value of both inputs
// appears exactly once and relative order is preserved within each side.
// On ties removals are emitted before insertions.
func GetChanges[T any](current, proposal []T, equals Equals[T], table *Table) []Change[T] {
	if table == nil {
		table = GetTable(current, proposal, equals)
	}

	var changes []Change[T]
	push := func(action Action, value, pair T, paired bool) {
		n := len(changes)
		if n == 0 || changes[n-1].Action != action {
			changes = append(changes, Change[T]{Action: action})
			n++
		}
		c := &changes[n-1]
		c.Values = append(c.Values, value)
		if paired {
			c.Pairs = append(c.Pairs, pair)
		}
	}

	var zero T
	i, j := 0, 0
	for i < len(current) && j < len(proposal) {
		switch {
		case table.at(i, j) == table.at(i+1, j+1)+1 && equals(current[i], proposal[j]):
			push(Keep, current[i], proposal[j], true)
			i++
			j++
		case table.at(i+1, j) >= table.at(i, j+1):
			push(Remove, current[i], zero, false)
			i++
		default:
			push(Insert, proposal[j], zero, false)
			j++
		}
	}
	for ; i < len(current); i++ {
		push(Remove, current[i], zero, false)
	}
	for ; j < len(proposal); j++ {
		push(Insert, proposal[j], zero, false)
	}
	return changes
}

// Diff is GetTable followed by GetChanges.
func Diff[T any](current, proposal []T, equals Equals[T]) []Change[T] {
	return GetChanges(current, proposal, equals, GetTable(current, proposal, equals))
}

// Strict returns an Equals using == on comparable values.
func Strict[T comparable]() Equals[T] {
	return func(a, b T) bool { return a == b }
}
