package recording

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
)

func newTestRecordingService(t *testing.T) (*Service, *MemoryRepository, storage.Backend) {
	backend, err := storage.NewLocalBackend(&storage.BackendConfig{
		LocalPath:   t.TempDir(),
		ExternalURL: "http://localhost:8080",
	})
	assert.NoError(t, err)

	repo := NewMemoryRepository()
	return NewService(repo, backend), repo, backend
}

func seedRecording(t *testing.T, repo *MemoryRepository, id, ownerID string) *Recording {
	t.Helper()

	rec := &Recording{
		ID:            id,
		OwnerID:       ownerID,
		Name:          "Sprint demo",
		MimeType:      "video/webm",
		DurationMs:    90000,
		FileSize:      1024,
		CreatedAt:     time.Now().Unix(),
		VideoPublicID: "recordings/" + ownerID + "/" + id + ".webm",
	}
	assert.NoError(t, repo.Create(rec))
	return rec
}

func TestGet_ShouldReturnOwnedRecordingWithURL(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seeded := seedRecording(t, repo, "rec-1", "owner-1")

	// when
	rec, err := service.Get(context.Background(), "rec-1", "owner-1")

	// then
	assert.NoError(t, err)
	assert.Equal(t, seeded.Name, rec.Name)
	assert.Contains(t, rec.VideoURL, seeded.VideoPublicID)
}

func TestGet_ShouldCollapseMissingAndForeignRecordings(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")

	// when
	_, missingErr := service.Get(context.Background(), "rec-2", "owner-1")
	_, foreignErr := service.Get(context.Background(), "rec-1", "owner-2")

	// then
	assert.Equal(t, api.CodeRecordingNotFound, api.CodeOf(missingErr))
	assert.Equal(t, api.CodeRecordingNotFound, api.CodeOf(foreignErr))
}

func TestList_ShouldReturnOnlyOwnRecordings(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")
	seedRecording(t, repo, "rec-2", "owner-1")
	seedRecording(t, repo, "rec-3", "owner-2")

	// when
	recordings, err := service.List(context.Background(), "owner-1")

	// then
	assert.NoError(t, err)
	assert.Len(t, recordings, 2)
	for _, rec := range recordings {
		assert.Equal(t, "owner-1", rec.OwnerID)
	}
}

func TestRename_ShouldUpdateName(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")

	// when
	rec, err := service.Rename(context.Background(), "rec-1", "owner-1", "  Retro walkthrough  ")

	// then
	assert.NoError(t, err)
	assert.Equal(t, "Retro walkthrough", rec.Name)
	stored, err := repo.GetByID("rec-1")
	assert.NoError(t, err)
	assert.Equal(t, "Retro walkthrough", stored.Name)
}

func TestRename_ShouldRejectEmptyName(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")

	// when
	_, err := service.Rename(context.Background(), "rec-1", "owner-1", "   ")

	// then
	assert.Equal(t, api.CodeInvalidInput, api.CodeOf(err))
}

func TestRename_ShouldRejectForeignRecording(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")

	// when
	_, err := service.Rename(context.Background(), "rec-1", "owner-2", "Stolen")

	// then
	assert.Equal(t, api.CodeRecordingNotFound, api.CodeOf(err))
}

func TestDelete_ShouldRemoveRowAndBlobs(t *testing.T) {
	// given
	service, repo, backend := newTestRecordingService(t)
	rec := seedRecording(t, repo, "rec-1", "owner-1")
	assert.NoError(t, backend.Store(context.Background(), rec.VideoPublicID, strings.NewReader("video bytes")))

	// when
	err := service.Delete(context.Background(), "rec-1", "owner-1")

	// then
	assert.NoError(t, err)
	stored, err := repo.GetByID("rec-1")
	assert.NoError(t, err)
	assert.Nil(t, stored)
	exists, err := backend.Exists(context.Background(), rec.VideoPublicID)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestDelete_ShouldRejectForeignRecording(t *testing.T) {
	// given
	service, repo, _ := newTestRecordingService(t)
	seedRecording(t, repo, "rec-1", "owner-1")

	// when
	err := service.Delete(context.Background(), "rec-1", "owner-2")

	// then
	assert.Equal(t, api.CodeRecordingNotFound, api.CodeOf(err))
	stored, err := repo.GetByID("rec-1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
}
