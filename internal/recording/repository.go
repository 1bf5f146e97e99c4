package recording

import (
	"database/sql"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(rec *Recording) error {
	query := `INSERT INTO recordings (id, owner_id, name, mime_type, duration_ms, file_size, created_at, video_public_id, thumbnail_public_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var thumbnail sql.NullString
	if rec.ThumbnailPublicID != "" {
		thumbnail = sql.NullString{String: rec.ThumbnailPublicID, Valid: true}
	}

	_, err := r.db.Exec(query,
		rec.ID,
		rec.OwnerID,
		rec.Name,
		rec.MimeType,
		rec.DurationMs,
		rec.FileSize,
		rec.CreatedAt,
		rec.VideoPublicID,
		thumbnail,
	)
	return err
}

func (r *SQLRepository) GetByID(id string) (*Recording, error) {
	query := `SELECT id, owner_id, name, mime_type, duration_ms, file_size, created_at, video_public_id, thumbnail_public_id
			  FROM recordings WHERE id = $1`

	rec := &Recording{}
	var thumbnail sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Name,
		&rec.MimeType,
		&rec.DurationMs,
		&rec.FileSize,
		&rec.CreatedAt,
		&rec.VideoPublicID,
		&thumbnail,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if thumbnail.Valid {
		rec.ThumbnailPublicID = thumbnail.String
	}

	return rec, nil
}

func (r *SQLRepository) GetByOwnerID(ownerID string) ([]*Recording, error) {
	query := `SELECT id, owner_id, name, mime_type, duration_ms, file_size, created_at, video_public_id, thumbnail_public_id
			  FROM recordings WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		var thumbnail sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Name,
			&rec.MimeType,
			&rec.DurationMs,
			&rec.FileSize,
			&rec.CreatedAt,
			&rec.VideoPublicID,
			&thumbnail,
		)
		if err != nil {
			return nil, err
		}

		if thumbnail.Valid {
			rec.ThumbnailPublicID = thumbnail.String
		}
		recordings = append(recordings, rec)
	}

	return recordings, rows.Err()
}

func (r *SQLRepository) Rename(id, name string) (bool, error) {
	return r.execCountingRows(`UPDATE recordings SET name = $1 WHERE id = $2`, name, id)
}

// Delete removes the recording row. Share rows go with it via the
// ON DELETE CASCADE constraint on recording_shares.recording_id.
func (r *SQLRepository) Delete(id string) (bool, error) {
	return r.execCountingRows(`DELETE FROM recordings WHERE id = $1`, id)
}

func (r *SQLRepository) execCountingRows(query string, args ...interface{}) (bool, error) {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
