package document

import (
	"encoding/json"
	"strings"
)

// Document is one parsed content file. Documents are rebuilt from disk on
// every request and never mutated after New returns.
type Document struct {
	Slug     string
	Metadata map[string]string
	Tags     []string
	Content  string
}

// New copies metadata and tags so the caller's values can't alias the document.
func New(slug string, metadata map[string]string, tags []string, content string) Document {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	tg := make([]string, len(tags))
	copy(tg, tags)
	return Document{Slug: slug, Metadata: md, Tags: tg, Content: content}
}

func (d Document) Title() string  { return d.Metadata["title"] }
func (d Document) Date() string   { return d.Metadata["date"] }
func (d Document) Author() string { return d.Metadata["author"] }

// MarshalJSON flattens metadata into the top-level object. slug, tags and
// content always override frontmatter keys of the same name.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Metadata)+3)
	for k, v := range d.Metadata {
		out[k] = v
	}
	out["slug"] = d.Slug
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	out["tags"] = tags
	out["content"] = d.Content
	return json.Marshal(out)
}

// Filter narrows a listing. Zero value matches everything.
type Filter struct {
	// Tag matches documents with any tag containing it, case-insensitively.
	Tag string
	// Title matches documents whose title contains it, case-insensitively.
	Title string
}

func (f Filter) Match(d Document) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(d.Title()), strings.ToLower(f.Title)) {
		return false
	}
	if f.Tag == "" {
		return true
	}
	needle := strings.ToLower(f.Tag)
	for _, t := range d.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// Apply returns the documents matching f, preserving order.
func (f Filter) Apply(docs []Document) []Document {
	if f == (Filter{}) {
		return docs
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
