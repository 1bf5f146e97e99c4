package recording

import (
	"context"
	"strings"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo    Repository
	backend storage.Backend
}

func NewService(repo Repository, backend storage.Backend) *Service {
	return &Service{
		repo:    repo,
		backend: backend,
	}
}

// Get returns the recording if it exists and belongs to ownerID. Missing and
// not-owned collapse into the same failure so callers cannot probe for
// other users' recording ids.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*Recording, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.OwnerID != ownerID {
		return nil, api.NewError(api.CodeRecordingNotFound)
	}

	s.populateURLs(ctx, rec)
	return rec, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]*Recording, error) {
	recordings, err := s.repo.GetByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	for _, rec := range recordings {
		s.populateURLs(ctx, rec)
	}

	return recordings, nil
}

func (s *Service) Rename(ctx context.Context, id, ownerID, name string) (*Recording, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, api.NewError(api.CodeInvalidInput)
	}

	rec, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Rename(id, name); err != nil {
		return nil, err
	}

	rec.Name = name
	return rec, nil
}

// Delete removes the recording row, which cascades to its share records, then
// deletes the blobs. Blob deletion is best-effort: the row is the system of
// record and an orphaned blob is preferable to a dangling row.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	rec, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if _, err := s.repo.Delete(id); err != nil {
		return err
	}

	if err := s.backend.Delete(ctx, rec.VideoPublicID); err != nil {
		log.Warn().Err(err).Str("path", rec.VideoPublicID).Msg("Failed to delete video blob")
	}

	if rec.ThumbnailPublicID != "" {
		if err := s.backend.Delete(ctx, rec.ThumbnailPublicID); err != nil {
			log.Warn().Err(err).Str("path", rec.ThumbnailPublicID).Msg("Failed to delete thumbnail blob")
		}
	}

	return nil
}

func (s *Service) populateURLs(ctx context.Context, rec *Recording) {
	rec.VideoURL, _ = s.backend.GetURL(ctx, rec.VideoPublicID)
	if rec.ThumbnailPublicID != "" {
		rec.ThumbnailURL, _ = s.backend.GetURL(ctx, rec.ThumbnailPublicID)
	}
}
