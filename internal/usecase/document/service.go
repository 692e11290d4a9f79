package document

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// Service serves document texts of the configured repository.
// Every operation rejects collections other than the configured index before
// touching the backend.
type Service struct {
	repo   Repository
	layout domain.Repository
}

// New creates a document service.
func New(repo Repository, layout domain.Repository) *Service {
	return &Service{repo: repo, layout: layout.WithDefaults()}
}

// Text returns the full text of a document.
func (s *Service) Text(ctx context.Context, collection, id string) (string, error) {
	if err := s.check(collection, id); err != nil {
		return "", err
	}
	text, err := s.repo.FetchText(ctx, s.layout.IndexName, s.layout.ObjectType, id)
	if err != nil {
		return "", fmt.Errorf("fetch text: %w", err)
	}
	return text, nil
}

// Stream returns the document text as a reader.
func (s *Service) Stream(ctx context.Context, collection, id string) (io.Reader, error) {
	text, err := s.Text(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(text), nil
}

// Format returns the document format, always domain.FormatText.
func (s *Service) Format(_ context.Context, collection, id string) (string, error) {
	if err := s.check(collection, id); err != nil {
		return "", err
	}
	return domain.FormatText, nil
}

// Index stores a document in the configured index.
func (s *Service) Index(ctx context.Context, collection, id string, doc domain.Document) error {
	if err := s.check(collection, id); err != nil {
		return err
	}
	if !utf8.ValidString(doc.Text) {
		return fmt.Errorf("document text is not valid UTF-8: %w", domain.ErrInvalidArgument)
	}
	if err := s.repo.Put(ctx, id, doc); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *Service) check(collection, id string) error {
	if err := domain.CheckCollection(collection, s.layout.IndexName); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("document id is required: %w", domain.ErrInvalidArgument)
	}
	return nil
}
