package profiles

import "fmt"

// NotFoundError reports a profile id with no backing YAML file.
type NotFoundError struct {
	ID   string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %s (%s)", e.ID, e.Path)
}

// DocumentError reports a profile file that exists but cannot be used.
type DocumentError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid profile %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid profile %s: %s", e.Path, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
