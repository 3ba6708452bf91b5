package models

import "fmt"

// AuthenticationError means no session could be established. It is fatal:
// no search may run without a session.
type AuthenticationError struct {
	Op  string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// SearchError wraps any upstream fault raised during collection. Records
// accepted before the fault are still returned alongside it.
type SearchError struct {
	Op        string
	Keywords  string
	Collected int
	Err       error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q failed (%s) after %d records: %v", e.Keywords, e.Op, e.Collected, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// ExportError wraps an I/O fault while writing the output file.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %q failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
