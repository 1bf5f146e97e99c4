package session

import "fmt"

// UploadSession tracks one in-progress chunked upload. Sessions exist between
// open and finalize; there is no persisted intermediate state.
type UploadSession struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	ChunkPrefix string `json:"chunkPrefix"`
	CreatedAt   int64  `json:"createdAt"`
}

// ChunkPath addresses one chunk under the session's storage location.
func (s *UploadSession) ChunkPath(index int) string {
	return fmt.Sprintf("%s/%d", s.ChunkPrefix, index)
}
