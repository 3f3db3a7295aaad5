package service

import (
	"context"
	"errors"

	"github.com/devblog/contentd/internal/document"
	"github.com/devblog/contentd/internal/document/repository"
	"github.com/devblog/contentd/internal/frontmatter"
	"github.com/devblog/contentd/internal/markdown"
)

// Service exposes one named collection (e.g. "articles") backed by one
// directory of a Repository. It holds no state between calls: every List and
// Get re-reads and re-parses the files.
type Service struct {
	name     string
	dir      string
	repo     repository.Repository
	renderer markdown.Renderer
}

// New wires a collection. dir is resolved by repo (a directory under the
// content root, or a key prefix for object storage).
func New(name, dir string, repo repository.Repository, renderer markdown.Renderer) *Service {
	return &Service{name: name, dir: dir, repo: repo, renderer: renderer}
}

func (s *Service) Name() string { return s.name }

// List returns every document in directory order. Any unreadable or
// malformed file fails the whole call.
func (s *Service) List(ctx context.Context) ([]document.Document, error) {
	entries, err := s.repo.ListRaw(ctx, s.dir)
	if err != nil {
		return nil, &document.StorageError{Collection: s.name, Op: "list", Err: err}
	}
	docs := make([]document.Document, 0, len(entries))
	for _, e := range entries {
		d, err := s.build(e.Slug, e.Raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Get returns the document for slug.
func (s *Service) Get(ctx context.Context, slug string) (document.Document, error) {
	raw, err := s.repo.ReadOne(ctx, s.dir, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return document.Document{}, &document.NotFoundError{Collection: s.name, Slug: slug}
		}
		return document.Document{}, &document.StorageError{Collection: s.name, Slug: slug, Op: "get", Err: err}
	}
	return s.build(slug, raw)
}

// Ping reports whether the collection can currently be read.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx, s.dir); err != nil {
		return &document.StorageError{Collection: s.name, Op: "ping", Err: err}
	}
	return nil
}

// Failure is one file Scan could not turn into a document.
type Failure struct {
	Slug string
	Err  error
}

// ScanReport is the partial-failure view of a collection.
type ScanReport struct {
	Documents []document.Document
	Failures  []Failure
}

// Scan is List without fail-fast: files that fail to parse or render are
// reported alongside the documents that succeeded. Only a failure to read
// the collection aborts the scan.
func (s *Service) Scan(ctx context.Context) (ScanReport, error) {
	entries, err := s.repo.ListRaw(ctx, s.dir)
	if err != nil {
		return ScanReport{}, &document.StorageError{Collection: s.name, Op: "scan", Err: err}
	}
	var rep ScanReport
	for _, e := range entries {
		d, err := s.build(e.Slug, e.Raw)
		if err != nil {
			rep.Failures = append(rep.Failures, Failure{Slug: e.Slug, Err: err})
			continue
		}
		rep.Documents = append(rep.Documents, d)
	}
	return rep, nil
}

func (s *Service) build(slug, raw string) (document.Document, error) {
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return document.Document{}, &document.ParseError{Collection: s.name, Slug: slug, Err: err}
	}
	html, err := s.renderer.Render(body)
	if err != nil {
		return document.Document{}, &document.ParseError{Collection: s.name, Slug: slug, Err: err}
	}
	return document.New(slug, meta.Fields, meta.Tags, html), nil
}
