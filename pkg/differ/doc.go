// Package differ computes edit scripts between two ordered sequences.
//
// The engine is positional: GetTable builds a longest-common-subsequence
// table under a caller-supplied equality predicate, and GetChanges walks it
// into groups of Insert, Keep and Remove actions that cover every element of
// both inputs exactly once. Keep groups carry the aligned proposal values in
// Pairs, so callers can recover which proposal element matched a kept element
// without re-running the predicate.
//
//	changes := differ.Diff(oldNames, newNames, differ.Strict[string]())
//	for _, c := range changes {
//	    switch c.Action {
//	    case differ.Insert: ...
//	    case differ.Keep:   ...
//	    case differ.Remove: ...
//	    }
//	}
package differ
