package recording

// Recording is a finalized screen recording. Created atomically by the upload
// finalizer after the merged artifact is durably stored; afterwards mutated
// only by rename and delete.
type Recording struct {
	ID                string `json:"id"`
	OwnerID           string `json:"-"`
	Name              string `json:"name"`
	MimeType          string `json:"mimeType"`
	DurationMs        int64  `json:"durationMs"`
	FileSize          int64  `json:"fileSize"`
	CreatedAt         int64  `json:"createdAt"`
	VideoPublicID     string `json:"videoPublicId"`
	ThumbnailPublicID string `json:"thumbnailPublicId,omitempty"`
	VideoURL          string `json:"videoUrl,omitempty"`
	ThumbnailURL      string `json:"thumbnailUrl,omitempty"`
}

// PublicView is the subset exposed through share links.
type PublicView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMs int64  `json:"duration"`
	CreatedAt  int64  `json:"createdAt"`
}

func (r *Recording) Public() *PublicView {
	return &PublicView{
		ID:         r.ID,
		Name:       r.Name,
		DurationMs: r.DurationMs,
		CreatedAt:  r.CreatedAt,
	}
}

// Repository is the persistence boundary for recordings. GetByID returns
// (nil, nil) when no row matches.
type Repository interface {
	Create(rec *Recording) error
	GetByID(id string) (*Recording, error)
	GetByOwnerID(ownerID string) ([]*Recording, error)
	Rename(id, name string) (bool, error)
	Delete(id string) (bool, error)
}
