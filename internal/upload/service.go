package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/metrics"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/recording"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/session"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
)

const (
	maxThumbnailWidth  = 320
	maxThumbnailHeight = 180
)

var allowedMimeTypes = map[string]bool{
	"video/webm": true,
	"video/mp4":  true,
	"image/gif":  true,
	"image/png":  true,
	"image/jpeg": true,
}

// Notifier receives upload lifecycle events. The websocket hub implements it;
// tests pass nil to skip notifications.
type Notifier interface {
	ChunkReceived(ownerID, sessionID string, chunkIndex, chunkSize int)
	UploadCompleted(ownerID, sessionID, recordingID string)
	UploadFailed(ownerID, sessionID, errorCode string)
}

type Service struct {
	sessions   session.Store
	backend    storage.Backend
	recordings recording.Repository
	notifier   Notifier
}

func NewService(sessions session.Store, backend storage.Backend, recordings recording.Repository, notifier Notifier) *Service {
	return &Service{
		sessions:   sessions,
		backend:    backend,
		recordings: recordings,
		notifier:   notifier,
	}
}

// OpenSession starts a new chunked upload for the given owner.
func (s *Service) OpenSession(ctx context.Context, ownerID string) (*OpenSessionResponse, error) {
	sess, err := s.sessions.Create(ctx, ownerID)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}

	metrics.SessionsOpened.Inc()

	log.Info().
		Str("sessionId", sess.ID).
		Msg("Upload session opened")

	return &OpenSessionResponse{SessionID: sess.ID}, nil
}

// ReceiveChunk stores one chunk of an open session. A chunk index that was
// already received is overwritten, so retries after a lost ack converge on
// the same bytes.
func (s *Service) ReceiveChunk(ctx context.Context, ownerID, sessionID string, chunkIndex int, data []byte) (*ChunkAck, error) {
	sess, err := s.resolveOwned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	path := sess.ChunkPath(chunkIndex)
	if err := s.backend.Store(ctx, path, bytes.NewReader(data)); err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}

	metrics.ChunksReceived.Inc()
	if s.notifier != nil {
		s.notifier.ChunkReceived(ownerID, sessionID, chunkIndex, len(data))
	}

	return &ChunkAck{Received: true, Index: chunkIndex}, nil
}

// Finalize assembles the session's chunks in index order into one durable
// artifact, registers the recording and disposes of the session. The
// completeness check runs before any permanent write, so a missing chunk
// leaves the session intact for the client to repair and retry.
func (s *Service) Finalize(ctx context.Context, ownerID, sessionID string, req FinalizeRequest) (*FinalizeResponse, error) {
	sess, err := s.resolveOwned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	if req.TotalChunks <= 0 || !allowedMimeTypes[req.MimeType] {
		return nil, s.fail(ownerID, sessionID, api.NewError(api.CodeInvalidInput))
	}

	claimed, err := s.sessions.Claim(ctx, sessionID)
	if err != nil {
		return nil, s.fail(ownerID, sessionID, api.WrapError(api.CodeInternal, err))
	}
	if !claimed {
		// Another finalize owns the session. Once the winner completes the
		// session is gone, so the loser sees the same code an unknown
		// session would produce.
		return nil, s.fail(ownerID, sessionID, api.NewError(api.CodeInvalidUUID))
	}

	resp, err := s.assemble(ctx, sess, req)
	if err != nil {
		if releaseErr := s.sessions.Release(ctx, sessionID); releaseErr != nil {
			log.Warn().Err(releaseErr).Str("sessionId", sessionID).Msg("Failed to release session claim")
		}
		return nil, s.fail(ownerID, sessionID, err)
	}

	s.dispose(ctx, sess)

	metrics.UploadsFinalized.Inc()
	if s.notifier != nil {
		s.notifier.UploadCompleted(ownerID, sessionID, resp.FileID)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("recordingId", resp.FileID).
		Int64("size", resp.Size).
		Msg("Upload finalized")

	return resp, nil
}

func (s *Service) assemble(ctx context.Context, sess *session.UploadSession, req FinalizeRequest) (*FinalizeResponse, error) {
	// Verify completeness before writing anything permanent.
	for i := 0; i < req.TotalChunks; i++ {
		exists, err := s.backend.Exists(ctx, sess.ChunkPath(i))
		if err != nil {
			return nil, api.WrapError(api.CodeInternal, err)
		}
		if !exists {
			return nil, api.WrapError(api.CodeMissingChunks, fmt.Errorf("missing chunk at index %d", i))
		}
	}

	var combined bytes.Buffer
	for i := 0; i < req.TotalChunks; i++ {
		reader, err := s.backend.Get(ctx, sess.ChunkPath(i))
		if err != nil {
			return nil, api.WrapError(api.CodeInternal, fmt.Errorf("failed to read chunk %d: %w", i, err))
		}

		if _, err := io.Copy(&combined, reader); err != nil {
			reader.Close()
			return nil, api.WrapError(api.CodeInternal, fmt.Errorf("failed to combine chunk %d: %w", i, err))
		}
		reader.Close()
	}

	fileID := uuid.New().String()
	videoPath := buildArtifactPath(sess.OwnerID, fileID, req.Filename, req.MimeType)

	if err := s.backend.Store(ctx, videoPath, bytes.NewReader(combined.Bytes())); err != nil {
		return nil, api.WrapError(api.CodeInternal, fmt.Errorf("failed to store artifact: %w", err))
	}

	thumbnailPath := ""
	if strings.HasPrefix(req.MimeType, "image/") {
		thumbnailPath = s.generateThumbnail(ctx, videoPath, combined.Bytes())
	}

	name := strings.TrimSpace(req.Filename)
	if name == "" {
		name = "Untitled recording"
	}

	rec := &recording.Recording{
		ID:                fileID,
		OwnerID:           sess.OwnerID,
		Name:              name,
		MimeType:          req.MimeType,
		DurationMs:        req.DurationMs,
		FileSize:          int64(combined.Len()),
		CreatedAt:         time.Now().Unix(),
		VideoPublicID:     videoPath,
		ThumbnailPublicID: thumbnailPath,
	}

	if err := s.recordings.Create(rec); err != nil {
		s.backend.Delete(ctx, videoPath)
		if thumbnailPath != "" {
			s.backend.Delete(ctx, thumbnailPath)
		}
		return nil, api.WrapError(api.CodeInternal, fmt.Errorf("failed to save recording: %w", err))
	}

	url, _ := s.backend.GetURL(ctx, videoPath)

	return &FinalizeResponse{
		FileID: fileID,
		URL:    url,
		Size:   rec.FileSize,
	}, nil
}

func (s *Service) generateThumbnail(ctx context.Context, videoPath string, data []byte) string {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to decode artifact for thumbnail")
		return ""
	}

	thumb := imaging.Fit(img, maxThumbnailWidth, maxThumbnailHeight, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		log.Warn().Err(err).Msg("Failed to encode thumbnail")
		return ""
	}

	thumbnailPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_thumb.jpg"
	if err := s.backend.Store(ctx, thumbnailPath, &thumbBuf); err != nil {
		log.Warn().Err(err).Str("path", thumbnailPath).Msg("Failed to store thumbnail")
		return ""
	}

	return thumbnailPath
}

// dispose removes the session and its temporary chunks. Both are best effort;
// the reaper sweeps anything left behind.
func (s *Service) dispose(ctx context.Context, sess *session.UploadSession) {
	if err := s.backend.DeletePrefix(ctx, sess.ChunkPrefix); err != nil {
		log.Warn().Err(err).Str("prefix", sess.ChunkPrefix).Msg("Failed to delete session chunks")
	}
	if _, err := s.sessions.Remove(ctx, sess.ID); err != nil {
		log.Warn().Err(err).Str("sessionId", sess.ID).Msg("Failed to remove session")
	}
}

// resolveOwned looks up an open session and enforces ownership. An absent
// session is indistinguishable from a malformed id to the caller.
func (s *Service) resolveOwned(ctx context.Context, ownerID, sessionID string) (*session.UploadSession, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}
	if sess == nil {
		return nil, api.NewError(api.CodeInvalidUUID)
	}
	if sess.OwnerID != ownerID {
		return nil, api.NewError(api.CodeForbidden)
	}
	return sess, nil
}

func (s *Service) fail(ownerID, sessionID string, err error) error {
	code := api.CodeOf(err)
	metrics.UploadsFailed.WithLabelValues(string(code)).Inc()
	if s.notifier != nil {
		s.notifier.UploadFailed(ownerID, sessionID, string(code))
	}
	return err
}

func buildArtifactPath(ownerID, fileID, filename, mimeType string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = extensionFromMimeType(mimeType)
	}
	return fmt.Sprintf("recordings/%s/%s%s", ownerID, fileID, ext)
}

func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "video/webm":
		return ".webm"
	case "video/mp4":
		return ".mp4"
	case "image/gif":
		return ".gif"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ""
	}
}
