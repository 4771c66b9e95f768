package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"portfolio/media"
	"portfolio/models"
	"portfolio/realtime"
	"portfolio/store"
)

const defaultListLimit = 20

// Notifier receives content change events.
type Notifier interface {
	Publish(e realtime.Event)
}

type ContentOptions struct {
	// TrackAuthors records the caller as author on create.
	TrackAuthors bool
	// EnforceOwnership restricts update and delete to the author.
	EnforceOwnership bool
	// ListLimit caps List results. Zero means 20.
	ListLimit int
}

// ContentService implements the lifecycle shared by posts and projects.
type ContentService[T any, P models.EntityPtr[T]] struct {
	kind     string
	docs     store.Collection[T]
	media    media.Ingester
	notifier Notifier
	opts     ContentOptions
	log      *log.Logger
	now      func() time.Time
}

type (
	PostService    = ContentService[models.Post, *models.Post]
	ProjectService = ContentService[models.Project, *models.Project]
)

func NewPostService(docs store.Collection[models.Post], ingester media.Ingester, opts ContentOptions, logger *log.Logger) *PostService {
	return newContentService[models.Post, *models.Post]("post", docs, ingester, opts, logger)
}

func NewProjectService(docs store.Collection[models.Project], ingester media.Ingester, opts ContentOptions, logger *log.Logger) *ProjectService {
	return newContentService[models.Project, *models.Project]("project", docs, ingester, opts, logger)
}

func newContentService[T any, P models.EntityPtr[T]](kind string, docs store.Collection[T], ingester media.Ingester, opts ContentOptions, logger *log.Logger) *ContentService[T, P] {
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}
	return &ContentService[T, P]{
		kind:  kind,
		docs:  docs,
		media: ingester,
		opts:  opts,
		log:   logger,
		now:   time.Now,
	}
}

// SetNotifier registers n to receive created, updated and deleted events.
func (s *ContentService[T, P]) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create validates fields, ingests file and stores a new document. caller
// may be nil when author tracking is off.
func (s *ContentService[T, P]) Create(ctx context.Context, fields Fields[T], file *multipart.FileHeader, caller *Claims) (*T, error) {
	if err := fields.Validate(true); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrMissingFile
	}
	if s.opts.TrackAuthors && caller == nil {
		return nil, ErrInvalidToken
	}

	ref, err := s.media.Ingest(ctx, file)
	if err != nil {
		return nil, err
	}

	doc := new(T)
	fields.Apply(doc)
	P(doc).SetMedia(ref)
	if s.opts.TrackAuthors {
		P(doc).SetAuthorID(caller.UserID)
	}
	P(doc).Stamp(s.now())
	P(doc).Normalize()

	if err := s.docs.Insert(ctx, doc); err != nil {
		s.release(ctx, ref)
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}

	if P(doc).GetAuthorID() != "" {
		if stored, err := s.docs.FindByID(ctx, P(doc).GetID()); err == nil {
			doc = stored
			P(doc).Normalize()
		}
	}
	s.publish("created", P(doc).GetID(), doc)
	return doc, nil
}

// Update replaces the supplied fields of document id. The media reference is
// replaced only when file is non-nil.
func (s *ContentService[T, P]) Update(ctx context.Context, id string, fields Fields[T], file *multipart.FileHeader, caller *Claims) (*T, error) {
	if err := fields.Validate(false); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(P(doc), caller); err != nil {
		return nil, err
	}

	var ref, previous string
	if file != nil {
		if ref, err = s.media.Ingest(ctx, file); err != nil {
			return nil, err
		}
		previous = P(doc).GetMedia()
	}

	fields.Apply(doc)
	if ref != "" {
		P(doc).SetMedia(ref)
	}
	P(doc).Stamp(s.now())
	P(doc).Normalize()

	if err := s.docs.Save(ctx, doc); err != nil {
		s.release(ctx, ref)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update %s %s: %w", s.kind, id, err)
	}
	s.release(ctx, previous)
	s.publish("updated", id, doc)
	return doc, nil
}

// List returns the most recent documents, newest first.
func (s *ContentService[T, P]) List(ctx context.Context) ([]*T, error) {
	docs, err := s.docs.Recent(ctx, s.opts.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", s.kind, err)
	}
	if docs == nil {
		docs = []*T{}
	}
	for _, d := range docs {
		P(d).Normalize()
	}
	return docs, nil
}

func (s *ContentService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	P(doc).Normalize()
	return doc, nil
}

// Delete removes document id for good. Deleting a missing id reports
// ErrNotFound every time.
func (s *ContentService[T, P]) Delete(ctx context.Context, id string, caller *Claims) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(P(doc), caller); err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s %s: %w", s.kind, id, err)
	}
	s.release(ctx, P(doc).GetMedia())
	s.publish("deleted", id, nil)
	return nil
}

func (s *ContentService[T, P]) find(ctx context.Context, id string) (*T, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s %s: %w", s.kind, id, err)
	}
	return doc, nil
}

func (s *ContentService[T, P]) authorize(doc P, caller *Claims) error {
	if !s.opts.EnforceOwnership {
		return nil
	}
	if caller == nil {
		return ErrInvalidToken
	}
	if doc.GetAuthorID() == "" || doc.GetAuthorID() != caller.UserID {
		return ErrNotAuthor
	}
	return nil
}

// release drops a stored media reference when the ingester supports it.
func (s *ContentService[T, P]) release(ctx context.Context, ref string) {
	r, ok := s.media.(media.Releaser)
	if !ok || ref == "" {
		return
	}
	if err := r.Release(ctx, ref); err != nil {
		s.log.Printf("failed to release %s media %s: %v", s.kind, ref, err)
	}
}

func (s *ContentService[T, P]) publish(action, id string, doc *T) {
	if s.notifier == nil {
		return
	}
	e := realtime.Event{Kind: s.kind, Action: action, ID: id}
	if doc != nil {
		e.Data = doc
	}
	s.notifier.Publish(e)
}
