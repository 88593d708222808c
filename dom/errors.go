package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is reports whether target is a DOMError with the same name, so callers can
// write errors.Is(err, dom.ErrIndexOutOfRange).
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name
}

// Sentinels for errors.Is comparisons.
var (
	ErrIndexOutOfRange  = ErrIndexSize("The index is not in the allowed range.")
	ErrHierarchyRequest = ErrHierarchy("The operation would yield an incorrect node tree.")
	ErrNodeNotFound     = ErrNotFound("The object can not be found here.")
)

// ErrHierarchy creates a HierarchyRequestError.
func ErrHierarchy(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}

// ErrIndexSize creates an IndexSizeError.
func ErrIndexSize(message string) *DOMError {
	return &DOMError{Name: "IndexSizeError", Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: "InvalidCharacterError", Message: message}
}

// ErrNotSupported creates a NotSupportedError.
func ErrNotSupported(message string) *DOMError {
	return &DOMError{Name: "NotSupportedError", Message: message}
}

// ExceptionCode returns the legacy DOMException code for a DOMError name.
func ExceptionCode(name string) int {
	switch name {
	case "IndexSizeError":
		return 1
	case "HierarchyRequestError":
		return 3
	case "WrongDocumentError":
		return 4
	case "InvalidCharacterError":
		return 5
	case "NotFoundError":
		return 8
	case "NotSupportedError":
		return 9
	case "InvalidStateError":
		return 11
	case "SyntaxError":
		return 12
	}
	return 0
}
