package share

import (
	"context"
	"time"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/metrics"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/recording"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo          Repository
	recordingRepo recording.Repository
	backend       storage.Backend
}

func NewService(repo Repository, recordingRepo recording.Repository, backend storage.Backend) *Service {
	return &Service{
		repo:          repo,
		recordingRepo: recordingRepo,
		backend:       backend,
	}
}

// CreateShare mints a share for a recording the caller owns. Missing and
// not-owned recordings both surface RECORDING_NOT_FOUND so share creation
// cannot be used to probe for recording ids.
func (s *Service) CreateShare(ctx context.Context, recordingID, ownerID string, shareType ShareType) (*Share, error) {
	if !shareType.Valid() {
		return nil, api.NewError(api.CodeInvalidInput)
	}

	if err := s.checkOwnership(recordingID, ownerID); err != nil {
		return nil, err
	}

	token, err := GenerateShareToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created := &Share{
		ID:          uuid.New().String(),
		RecordingID: recordingID,
		Token:       token,
		ShareType:   shareType,
		ViewCount:   0,
		CreatedAt:   now.Unix(),
	}

	if shareType == ShareTypeSingleView {
		one := int64(1)
		created.MaxViews = &one
	}

	if err := s.repo.Create(created); err != nil {
		return nil, err
	}

	created.IsActive = created.Active(now)
	metrics.SharesCreated.Inc()

	log.Info().
		Str("shareId", created.ID).
		Str("recordingId", recordingID).
		Str("shareType", string(shareType)).
		Msg("Share created")

	return created, nil
}

// ListShares returns every share for the recording, active or not, in
// creation order.
func (s *Service) ListShares(ctx context.Context, recordingID, ownerID string) ([]*Share, error) {
	if err := s.checkOwnership(recordingID, ownerID); err != nil {
		return nil, err
	}

	shares, err := s.repo.GetByRecordingID(recordingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, sh := range shares {
		sh.IsActive = sh.Active(now)
	}

	return shares, nil
}

// RevokeShare stamps revokedAt once. Revoking an already-revoked share is a
// no-op that reports false.
func (s *Service) RevokeShare(ctx context.Context, recordingID, shareID, ownerID string) (bool, error) {
	if err := s.checkOwnership(recordingID, ownerID); err != nil {
		return false, err
	}

	revoked, err := s.repo.Revoke(shareID, recordingID, time.Now().Unix())
	if err != nil {
		return false, err
	}

	if !revoked {
		existing, err := s.repo.GetByID(shareID)
		if err != nil {
			return false, err
		}
		if existing == nil || existing.RecordingID != recordingID {
			return false, api.NewError(api.CodeShareNotFound)
		}
		// Already revoked.
		return false, nil
	}

	log.Info().
		Str("shareId", shareID).
		Str("recordingId", recordingID).
		Msg("Share revoked")

	return true, nil
}

// ValidateShare looks up a token and evaluates validity. The checks apply in
// a fixed precedence where the first match wins: not found, revoked, expired,
// view limit. A revoked-and-expired share therefore reports SHARE_REVOKED;
// revocation is the stronger, intentional signal.
func (s *Service) ValidateShare(ctx context.Context, token string) (*Share, error) {
	sh, err := s.repo.GetByToken(token)
	if err != nil {
		return nil, err
	}

	code := validityCode(sh, time.Now())
	if code != "" {
		metrics.ShareRejections.WithLabelValues(string(code)).Inc()
		return nil, api.NewError(code)
	}

	sh.IsActive = true
	return sh, nil
}

func validityCode(sh *Share, now time.Time) api.ErrorCode {
	switch {
	case sh == nil:
		return api.CodeShareNotFound
	case sh.Revoked():
		return api.CodeShareRevoked
	case sh.Expired(now):
		return api.CodeShareExpired
	case sh.ViewLimitReached():
		return api.CodeShareViewLimitReached
	default:
		return ""
	}
}

// PublicRecording resolves a token to the public subset of its recording.
// This is a preview fetch and does not consume a view.
func (s *Service) PublicRecording(ctx context.Context, token string) (*recording.PublicView, error) {
	_, rec, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	return rec.Public(), nil
}

// VideoURL resolves a token to the blob URL of its video and counts the view.
// The increment happens only after every validity check and the URL
// resolution have succeeded, never on a rejected request.
func (s *Service) VideoURL(ctx context.Context, token string) (string, error) {
	sh, rec, err := s.resolve(ctx, token)
	if err != nil {
		return "", err
	}

	exists, err := s.backend.Exists(ctx, rec.VideoPublicID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", api.NewError(api.CodeFileNotFound)
	}

	url, err := s.backend.GetURL(ctx, rec.VideoPublicID)
	if err != nil {
		return "", err
	}

	if err := s.repo.IncrementViewCount(sh.ID); err != nil {
		return "", err
	}
	metrics.ShareViews.Inc()

	return url, nil
}

// ThumbnailURL resolves a token to the thumbnail blob URL. Thumbnail fetches
// do not count as views.
func (s *Service) ThumbnailURL(ctx context.Context, token string) (string, error) {
	_, rec, err := s.resolve(ctx, token)
	if err != nil {
		return "", err
	}

	if rec.ThumbnailPublicID == "" {
		return "", api.NewError(api.CodeThumbnailNotFound)
	}

	return s.backend.GetURL(ctx, rec.ThumbnailPublicID)
}

func (s *Service) resolve(ctx context.Context, token string) (*Share, *recording.Recording, error) {
	sh, err := s.ValidateShare(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.recordingRepo.GetByID(sh.RecordingID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		// Recording deletion cascades to shares, so this only happens if the
		// two reads race a delete.
		return nil, nil, api.NewError(api.CodeShareNotFound)
	}

	return sh, rec, nil
}

func (s *Service) checkOwnership(recordingID, ownerID string) error {
	rec, err := s.recordingRepo.GetByID(recordingID)
	if err != nil {
		return err
	}
	if rec == nil || rec.OwnerID != ownerID {
		return api.NewError(api.CodeRecordingNotFound)
	}
	return nil
}
