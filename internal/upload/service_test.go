package upload

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/recording"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/session"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
)

func newTestService(t *testing.T) (*Service, recording.Repository, storage.Backend) {
	backend, err := storage.NewLocalBackend(&storage.BackendConfig{
		LocalPath:   t.TempDir(),
		ExternalURL: "http://localhost:8080",
	})
	assert.NoError(t, err)

	recordings := recording.NewMemoryRepository()
	service := NewService(session.NewMemoryStore("uploads/tmp"), backend, recordings, nil)
	return service, recordings, backend
}

func TestOpenSession_ShouldReturnUniqueSessionIDs(t *testing.T) {
	// given
	service, _, _ := newTestService(t)

	// when
	first, err1 := service.OpenSession(context.Background(), "owner-1")
	second, err2 := service.OpenSession(context.Background(), "owner-1")

	// then
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEmpty(t, first.SessionID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestReceiveChunk_ShouldAckStoredChunk(t *testing.T) {
	// given
	service, _, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	// when
	ack, err := service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("chunk bytes"))

	// then
	assert.NoError(t, err)
	assert.True(t, ack.Received)
	assert.Equal(t, 0, ack.Index)
}

func TestReceiveChunk_ShouldRejectUnknownSession(t *testing.T) {
	// given
	service, _, _ := newTestService(t)

	// when
	_, err := service.ReceiveChunk(context.Background(), "owner-1", "11111111-1111-4111-8111-111111111111", 0, []byte("data"))

	// then
	assert.Equal(t, api.CodeInvalidUUID, api.CodeOf(err))
}

func TestReceiveChunk_ShouldRejectForeignSession(t *testing.T) {
	// given
	service, _, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	// when
	_, err = service.ReceiveChunk(context.Background(), "owner-2", opened.SessionID, 0, []byte("data"))

	// then
	assert.Equal(t, api.CodeForbidden, api.CodeOf(err))
}

func TestReceiveChunk_ShouldOverwriteOnRetry(t *testing.T) {
	// given
	service, recordings, backend := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("stale"))
	assert.NoError(t, err)

	// when - the client retries the same index with the final bytes
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("FRESH"))
	assert.NoError(t, err)

	resp, err := service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.NoError(t, err)
	assertArtifactBytes(t, recordings, backend, resp.FileID, "FRESH")
}

func TestFinalize_ShouldAssembleChunksInIndexOrder(t *testing.T) {
	// given
	service, recordings, backend := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	// chunks arrive out of order
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 1, []byte("SECOND"))
	assert.NoError(t, err)
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("FIRST"))
	assert.NoError(t, err)

	// when
	resp, err := service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 2,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
		DurationMs:  4200,
	})

	// then
	assert.NoError(t, err)
	assert.Equal(t, int64(len("FIRSTSECOND")), resp.Size)
	assert.NotEmpty(t, resp.URL)
	assertArtifactBytes(t, recordings, backend, resp.FileID, "FIRSTSECOND")

	rec, err := recordings.GetByID(resp.FileID)
	assert.NoError(t, err)
	assert.Equal(t, "owner-1", rec.OwnerID)
	assert.Equal(t, int64(4200), rec.DurationMs)
	assert.Equal(t, "video/webm", rec.MimeType)
}

func TestFinalize_ShouldFailClosedOnMissingChunk(t *testing.T) {
	// given
	service, recordings, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("FIRST"))
	assert.NoError(t, err)
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 2, []byte("THIRD"))
	assert.NoError(t, err)

	// when - index 1 never arrived
	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 3,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.Equal(t, api.CodeMissingChunks, api.CodeOf(err))
	all, err := recordings.GetByOwnerID("owner-1")
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestFinalize_ShouldKeepSessionAfterMissingChunk(t *testing.T) {
	// given
	service, recordings, backend := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("FIRST"))
	assert.NoError(t, err)

	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 2,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})
	assert.Equal(t, api.CodeMissingChunks, api.CodeOf(err))

	// when - the client uploads the missing chunk and retries
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 1, []byte("SECOND"))
	assert.NoError(t, err)

	resp, err := service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 2,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.NoError(t, err)
	assertArtifactBytes(t, recordings, backend, resp.FileID, "FIRSTSECOND")
}

func TestFinalize_ShouldRejectZeroChunks(t *testing.T) {
	// given
	service, _, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	// when
	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 0,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.Equal(t, api.CodeInvalidInput, api.CodeOf(err))
}

func TestFinalize_ShouldRejectUnsupportedMimeType(t *testing.T) {
	// given
	service, _, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("data"))
	assert.NoError(t, err)

	// when
	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "payload.bin",
		MimeType:    "application/octet-stream",
	})

	// then
	assert.Equal(t, api.CodeInvalidInput, api.CodeOf(err))
}

func TestFinalize_ShouldRejectForeignSession(t *testing.T) {
	// given
	service, _, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("data"))
	assert.NoError(t, err)

	// when
	_, err = service.Finalize(context.Background(), "owner-2", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.Equal(t, api.CodeForbidden, api.CodeOf(err))
}

func TestFinalize_ShouldRemoveSessionAndChunksOnSuccess(t *testing.T) {
	// given
	service, _, backend := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("FIRST"))
	assert.NoError(t, err)

	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})
	assert.NoError(t, err)

	// when - the session is gone, so another finalize cannot find it
	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.Equal(t, api.CodeInvalidUUID, api.CodeOf(err))
	exists, err := backend.Exists(context.Background(), "uploads/tmp/"+opened.SessionID+"/0")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestFinalize_ShouldReportSessionUnavailableWhileClaimHeld(t *testing.T) {
	// given: a concurrent finalize already holds the session claim
	backend, err := storage.NewLocalBackend(&storage.BackendConfig{
		LocalPath:   t.TempDir(),
		ExternalURL: "http://localhost:8080",
	})
	assert.NoError(t, err)

	store := session.NewMemoryStore("uploads/tmp")
	recordings := recording.NewMemoryRepository()
	service := NewService(store, backend, recordings, nil)

	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)
	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("data"))
	assert.NoError(t, err)

	claimed, err := store.Claim(context.Background(), opened.SessionID)
	assert.NoError(t, err)
	assert.True(t, claimed)

	// when
	_, err = service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then: the loser sees the session as unavailable and no artifact exists
	assert.Equal(t, api.CodeInvalidUUID, api.CodeOf(err))
	all, err := recordings.GetByOwnerID("owner-1")
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestFinalize_ShouldGenerateThumbnailForImages(t *testing.T) {
	// given
	service, recordings, backend := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, tinyPNG())
	assert.NoError(t, err)

	// when
	resp, err := service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "frame.png",
		MimeType:    "image/png",
	})

	// then
	assert.NoError(t, err)
	rec, err := recordings.GetByID(resp.FileID)
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ThumbnailPublicID)
	exists, err := backend.Exists(context.Background(), rec.ThumbnailPublicID)
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestFinalize_ShouldSkipThumbnailForVideos(t *testing.T) {
	// given
	service, recordings, _ := newTestService(t)
	opened, err := service.OpenSession(context.Background(), "owner-1")
	assert.NoError(t, err)

	_, err = service.ReceiveChunk(context.Background(), "owner-1", opened.SessionID, 0, []byte("not decodable"))
	assert.NoError(t, err)

	// when
	resp, err := service.Finalize(context.Background(), "owner-1", opened.SessionID, FinalizeRequest{
		TotalChunks: 1,
		Filename:    "demo.webm",
		MimeType:    "video/webm",
	})

	// then
	assert.NoError(t, err)
	rec, err := recordings.GetByID(resp.FileID)
	assert.NoError(t, err)
	assert.Empty(t, rec.ThumbnailPublicID)
}

func assertArtifactBytes(t *testing.T, recordings recording.Repository, backend storage.Backend, fileID, want string) {
	t.Helper()

	rec, err := recordings.GetByID(fileID)
	assert.NoError(t, err)
	assert.NotNil(t, rec)

	reader, err := backend.Get(context.Background(), rec.VideoPublicID)
	assert.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, want, string(got))
}

// tinyPNG encodes a small image in-process so no fixture files are needed.
func tinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
