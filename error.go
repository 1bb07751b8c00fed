package scenedep

import (
	"fmt"
	"reflect"
)

// DependencyError reports a failed resolution. It is returned, never
// panicked: a missing dependency is non-fatal and the caller is expected to
// fall back to a default value. Status carries the registry's diagnostic
// dump at the time of the failure.
type DependencyError struct {
	Message        string
	ReferencedType reflect.Type
	Group          int
	Status         string
	SourceError    error
}

func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
	if e.Group != AnyGroup {
		msg = fmt.Sprintf("%s (group %d)", msg, e.Group)
	}
	if e.SourceError != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.SourceError)
	}
	return msg
}

func (e *DependencyError) Unwrap() error {
	return e.SourceError
}
