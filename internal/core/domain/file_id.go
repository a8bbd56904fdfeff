package domain

import "unique"

// FileID identifies a source file or a header by the exact path the compiler
// printed for it. Two spellings of the same file on disk are distinct IDs.
// Paths repeat across every trace that names them, so they are interned and
// compared by handle.
type FileID struct {
	h unique.Handle[string]
}

// NewFileID interns path.
func NewFileID(path string) FileID {
	return FileID{h: unique.Make(path)}
}

// IsZero reports whether the ID was never assigned.
func (id FileID) IsZero() bool {
	return id.h == unique.Handle[string]{}
}

// String returns the path. The zero ID yields the empty string.
func (id FileID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}
