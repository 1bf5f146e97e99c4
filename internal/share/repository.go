package share

import (
	"database/sql"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const shareColumns = `id, recording_id, share_token, share_type, view_count, max_views, created_at, expires_at, revoked_at`

func (r *SQLRepository) Create(s *Share) error {
	query := `INSERT INTO recording_shares (` + shareColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		s.ID,
		s.RecordingID,
		s.Token,
		string(s.ShareType),
		s.ViewCount,
		s.MaxViews,
		s.CreatedAt,
		s.ExpiresAt,
		s.RevokedAt,
	)
	return err
}

func (r *SQLRepository) GetByID(id string) (*Share, error) {
	query := `SELECT ` + shareColumns + ` FROM recording_shares WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *SQLRepository) GetByToken(token string) (*Share, error) {
	query := `SELECT ` + shareColumns + ` FROM recording_shares WHERE share_token = $1`
	return r.scanOne(r.db.QueryRow(query, token))
}

func (r *SQLRepository) GetByRecordingID(recordingID string) ([]*Share, error) {
	query := `SELECT ` + shareColumns + ` FROM recording_shares
			  WHERE recording_id = $1 ORDER BY seq`

	rows, err := r.db.Query(query, recordingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*Share
	for rows.Next() {
		s, err := scanShare(rows.Scan)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}

	return shares, rows.Err()
}

// Revoke matches only unrevoked rows, which makes a second revoke a no-op
// reporting false.
func (r *SQLRepository) Revoke(shareID, recordingID string, revokedAt int64) (bool, error) {
	query := `UPDATE recording_shares SET revoked_at = $1
			  WHERE id = $2 AND recording_id = $3 AND revoked_at IS NULL`

	result, err := r.db.Exec(query, revokedAt, shareID, recordingID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// IncrementViewCount bumps the counter in a single statement so concurrent
// public fetches never lose an increment.
func (r *SQLRepository) IncrementViewCount(shareID string) error {
	query := `UPDATE recording_shares SET view_count = view_count + 1 WHERE id = $1`
	_, err := r.db.Exec(query, shareID)
	return err
}

func (r *SQLRepository) scanOne(row *sql.Row) (*Share, error) {
	s, err := scanShare(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanShare(scan func(dest ...interface{}) error) (*Share, error) {
	s := &Share{}
	var shareType string
	var maxViews, expiresAt, revokedAt sql.NullInt64

	err := scan(
		&s.ID,
		&s.RecordingID,
		&s.Token,
		&shareType,
		&s.ViewCount,
		&maxViews,
		&s.CreatedAt,
		&expiresAt,
		&revokedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ShareType = ShareType(shareType)
	if maxViews.Valid {
		s.MaxViews = &maxViews.Int64
	}
	if expiresAt.Valid {
		s.ExpiresAt = &expiresAt.Int64
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Int64
	}

	return s, nil
}
