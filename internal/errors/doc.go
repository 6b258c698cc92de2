// Package errors provides structured, coded errors for retree.
//
// Every failure the tree engine can raise is a programmer-facing invariant
// violation with a registered code. The code maps to a short message, a
// detailed explanation and a documentation URL, so the CLI and the inspector
// can render the same error for terminals, logs and HTTP clients.
//
// # Error Categories
//
//   - lifecycle: construct/destruct re-entry, missing render
//   - ownership: insert/remove parent violations
//   - markup: unsupported sources, children and attachments
//   - reconcile: recycling across node kinds
//   - serialize: snapshots of unsupported nodes
//   - export, config, cli: the surrounding tooling
//
// # Matching
//
// Error.Is compares codes, so a sentinel built with New matches every error
// raised with the same code:
//
//	var ErrWrongParent = errors.New(errors.CodeWrongParent)
//
//	if stderrors.Is(err, ErrWrongParent) { ... }
//
// # Usage
//
//	err := errors.New("E143").
//	    WithSubject("Panel").
//	    WithLocation("page.yaml", 12, 5).
//	    WithSuggestion("Register the type before decoding the document")
//
//	fmt.Println(err.Format())
package errors
