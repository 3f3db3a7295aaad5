package document

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrMalformed = errors.New("malformed document")
	ErrStorage   = errors.New("content storage failure")
)

// NotFoundError means the slug has no backing file in the collection.
type NotFoundError struct {
	Collection string
	Slug       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Collection, e.Slug, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError means the backing file exists but its frontmatter is malformed.
type ParseError struct {
	Collection string
	Slug       string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s/%s: %v: %v", e.Collection, e.Slug, ErrMalformed, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrMalformed }
func (e *ParseError) Unwrap() error        { return e.Err }

// StorageError covers unreadable directories and I/O failures not tied to a
// missing slug. Slug is empty for collection-wide failures.
type StorageError struct {
	Collection string
	Slug       string
	Op         string
	Err        error
}

func (e *StorageError) Error() string {
	target := e.Collection
	if e.Slug != "" {
		target += "/" + e.Slug
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, target, ErrStorage, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
func (e *StorageError) Unwrap() error        { return e.Err }
