package differ

import (
	"strings"
	"testing"
)

// script renders changes as "+a =b -c" for compact assertions.
func script(changes []Change[string]) string {
	var parts []string
	for _, c := range changes {
		prefix := map[Action]string{Insert: "+", Keep: "=", Remove: "-"}[c.Action]
		parts = append(parts, prefix+strings.Join(c.Values, ","))
	}
	return strings.Join(parts, " ")
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		proposal string
		want     string
	}{
		{"both empty", "", "", ""},
		{"all inserted", "", "ab", "+a,b"},
		{"all removed", "ab", "", "-a,b"},
		{"identical", "xy", "xy", "=x,y"},
		{"remove head", "ab", "b", "-a =b"},
		{"insert head", "a", "za", "+z =a"},
		{"replace middle", "abc", "axc", "=a -b +x =c"},
		{"append", "ab", "abc", "=a,b +c"},
		{"disjoint", "ab", "cd", "-a,b +c,d"},
		{"swap", "ab", "ba", "-a =b +a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := script(Diff(split(tt.current), split(tt.proposal), Strict[string]()))
			if got != tt.want {
				t.Errorf("Diff(%q, %q) = %q, want %q", tt.current, tt.proposal, got, tt.want)
			}
		})
	}
}

func TestGetTableLen(t *testing.T) {
	table := GetTable(split("abcbdab"), split("bdcaba"), Strict[string]())
	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}
}

func TestChangesReplayBothSides(t *testing.T) {
	current := split("abcbdab")
	proposal := split("bdcaba")
	changes := Diff(current, proposal, Strict[string]())

	var gotCurrent, gotProposal []string
	for _, c := range changes {
		switch c.Action {
		case Keep:
			gotCurrent = append(gotCurrent, c.Values...)
			gotProposal = append(gotProposal, c.Pairs...)
		case Remove:
			gotCurrent = append(gotCurrent, c.Values...)
		case Insert:
			gotProposal = append(gotProposal, c.Values...)
		}
	}
	if strings.Join(gotCurrent, "") != strings.Join(current, "") {
		t.Errorf("current side = %v, want %v", gotCurrent, current)
	}
	if strings.Join(gotProposal, "") != strings.Join(proposal, "") {
		t.Errorf("proposal side = %v, want %v", gotProposal, proposal)
	}
}

func TestKeepPairsUseCustomEquality(t *testing.T) {
	type item struct {
		key string
		rev int
	}
	current := []item{{"a", 1}, {"b", 1}}
	proposal := []item{{"b", 2}}
	sameKey := func(x, y item) bool { return x.key == y.key }

	changes := Diff(current, proposal, sameKey)
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2", len(changes))
	}
	keep := changes[1]
	if keep.Action != Keep {
		t.Fatalf("changes[1].Action = %v, want Keep", keep.Action)
	}
	if keep.Values[0] != (item{"b", 1}) {
		t.Errorf("kept value = %v, want current b@1", keep.Values[0])
	}
	if keep.Pairs[0] != (item{"b", 2}) {
		t.Errorf("paired value = %v, want proposal b@2", keep.Pairs[0])
	}
}

func TestGetChangesNilTable(t *testing.T) {
	got := script(GetChanges(split("ab"), split("b"), Strict[string](), nil))
	if got != "-a =b" {
		t.Errorf("GetChanges with nil table = %q, want %q", got, "-a =b")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Insert, "Insert"},
		{Keep, "Keep"},
		{Remove, "Remove"},
		{Action(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", tt.action, got, tt.want)
		}
	}
}
