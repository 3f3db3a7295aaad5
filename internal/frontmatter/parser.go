package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter opens and closes the metadata block. It must sit on a line of its own.
const Delimiter = "---"

// separator splits a metadata line into key and value (first occurrence only).
const separator = ": "

// TagsKey is the metadata key whose value is split into a tag list.
const TagsKey = "tags"

// ErrMalformed is matched by every ParseError.
var ErrMalformed = errors.New("malformed frontmatter")

// ParseError describes why a file could not be split into metadata and body.
// Line is the 1-based line in the raw input, or 0 when the error concerns the
// file as a whole (missing delimiters).
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("frontmatter: line %d: %s", e.Line, e.Reason)
	}
	return "frontmatter: " + e.Reason
}

func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// Metadata is the parsed frontmatter block. Fields holds every key/value pair
// (the raw tags line included); Tags is the normalized tag list.
type Metadata struct {
	Fields map[string]string
	Tags   []string
}

// Get returns the value stored under key and whether it was present.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

type state int

const (
	statePreamble state = iota
	stateMetadata
	stateBody
)

// Parse splits raw into its metadata block and markdown body.
//
// Lines before the first "---" line are discarded. The next "---" line closes
// the block, and everything after it is returned verbatim as the body, so
// horizontal rules in the body are left alone. Blank metadata lines are
// skipped; any other line must contain ": " with a non-empty key.
func Parse(raw string) (Metadata, string, error) {
	meta := Metadata{Fields: map[string]string{}, Tags: []string{}}

	st := statePreamble
	offset := 0
	lineNo := 0
	for offset < len(raw) && st != stateBody {
		end := strings.IndexByte(raw[offset:], '\n')
		var line string
		next := len(raw)
		if end >= 0 {
			line = raw[offset : offset+end]
			next = offset + end + 1
		} else {
			line = raw[offset:]
		}
		lineNo++
		offset = next

		isDelim := strings.TrimRight(line, " \t\r") == Delimiter
		switch st {
		case statePreamble:
			if isDelim {
				st = stateMetadata
			}
		case stateMetadata:
			if isDelim {
				st = stateBody
				continue
			}
			if err := meta.addLine(line, lineNo); err != nil {
				return Metadata{}, "", err
			}
		}
	}

	switch st {
	case statePreamble:
		return Metadata{}, "", &ParseError{Reason: "missing opening delimiter"}
	case stateMetadata:
		return Metadata{}, "", &ParseError{Reason: "missing closing delimiter"}
	}

	meta.Tags = SplitTags(meta.Fields[TagsKey])
	return meta, raw[offset:], nil
}

func (m *Metadata) addLine(line string, lineNo int) error {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	key, value, ok := strings.Cut(line, separator)
	if !ok {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("expected %q separator in %q", separator, line)}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return &ParseError{Line: lineNo, Reason: "empty key"}
	}
	m.Fields[key] = strings.TrimSpace(value)
	return nil
}

// SplitTags splits a comma separated tag list, trimming every entry and
// dropping empty ones. It never returns nil.
func SplitTags(value string) []string {
	tags := []string{}
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
