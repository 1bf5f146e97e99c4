package share

import "time"

type ShareType string

const (
	ShareTypeLink       ShareType = "link"
	ShareTypeSingleView ShareType = "single_view"
)

func (t ShareType) Valid() bool {
	return t == ShareTypeLink || t == ShareTypeSingleView
}

// Share grants access to a recording through an unguessable token.
// IsActive is derived from the three primitives below on every read and is
// never persisted, so it cannot drift out of sync with them.
type Share struct {
	ID          string    `json:"id"`
	RecordingID string    `json:"recordingId"`
	Token       string    `json:"shareToken"`
	ShareType   ShareType `json:"shareType"`
	ViewCount   int64     `json:"viewCount"`
	MaxViews    *int64    `json:"maxViews,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	ExpiresAt   *int64    `json:"expiresAt,omitempty"`
	RevokedAt   *int64    `json:"revokedAt,omitempty"`
	IsActive    bool      `json:"isActive"`
}

func (s *Share) Revoked() bool {
	return s.RevokedAt != nil
}

func (s *Share) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && *s.ExpiresAt < now.Unix()
}

func (s *Share) ViewLimitReached() bool {
	return s.MaxViews != nil && s.ViewCount >= *s.MaxViews
}

func (s *Share) Active(now time.Time) bool {
	return !s.Revoked() && !s.Expired(now) && !s.ViewLimitReached()
}

// Repository is the persistence boundary for shares. Lookups return (nil, nil)
// when no row matches. IncrementViewCount must be an atomic in-database
// increment, never read-then-write from here.
type Repository interface {
	Create(share *Share) error
	GetByID(id string) (*Share, error)
	GetByToken(token string) (*Share, error)
	GetByRecordingID(recordingID string) ([]*Share, error)

	// Revoke stamps revokedAt on the share only if it belongs to recordingID
	// and is not already revoked. Returns whether a row was updated.
	Revoke(shareID, recordingID string, revokedAt int64) (bool, error)

	IncrementViewCount(shareID string) error
}
