package tree

import "github.com/vango-dev/retree/internal/errors"

// Sentinel errors. Errors raised by this package match them with errors.Is
// and carry the offending value in their Subject.
var (
	ErrRenderNotImplemented    = errors.New(errors.CodeRenderNotImplemented)
	ErrUnsupportedMarkupSource = errors.New(errors.CodeUnsupportedMarkupSource)
	ErrUnsupportedChildType    = errors.New(errors.CodeUnsupportedChildType)
	ErrUnsupportedAttachment   = errors.New(errors.CodeUnsupportedAttachment)
	ErrAlreadyConstructed      = errors.New(errors.CodeAlreadyConstructed)
	ErrAlreadyDestroyed        = errors.New(errors.CodeAlreadyDestroyed)
	ErrAlreadyAttached         = errors.New(errors.CodeAlreadyAttached)
	ErrAlreadyDetached         = errors.New(errors.CodeAlreadyDetached)
	ErrWrongParent             = errors.New(errors.CodeWrongParent)
	ErrTypeMismatch            = errors.New(errors.CodeTypeMismatch)
	ErrUnsupportedNodeType     = errors.New(errors.CodeUnsupportedNodeType)
	ErrDuplicateType           = errors.New(errors.CodeDuplicateType)
)

// fail builds a fresh error for code, optionally naming the offending value.
func fail(code string, subject ...any) error {
	err := errors.New(code)
	if len(subject) > 0 {
		err.WithSubject("%v", subject[0])
	}
	return err
}
