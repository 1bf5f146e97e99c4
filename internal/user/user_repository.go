package user

import (
	"database/sql"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) CreateUser(u *User) error {
	query := `INSERT INTO users (id, email, name, password_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	return err
}

func (r *SQLRepository) GetUserByID(id string) (*User, error) {
	return r.getOne(`SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *SQLRepository) GetUserByEmail(email string) (*User, error) {
	return r.getOne(`SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *SQLRepository) getOne(query, arg string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}
