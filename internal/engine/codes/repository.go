package codes

import (
	"database/sql"
	"errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
	SELECT id, content, label_text, font_size, encoder,
	       image_sha256, image_size, width, height,
	       created_by, created_at, expires_at
	FROM codes`

func (r *Repository) Create(code *Code) error {
	query := `
		INSERT INTO codes (
			id, content, label_text, font_size, encoder,
			image_sha256, image_size, width, height,
			created_by, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		code.ID,
		code.Content,
		code.LabelText,
		code.FontSize,
		code.Encoder,
		code.ImageSHA256,
		code.ImageSize,
		code.Width,
		code.Height,
		code.CreatedBy,
		code.CreatedAt,
		code.ExpiresAt,
	)
	return err
}

// ownerFilter narrows a query to codes created by owner. An empty owner
// matches every code.
func ownerFilter(owner string, args []interface{}) (string, []interface{}) {
	if owner == "" {
		return "", args
	}
	return ` AND created_by = ?`, append(args, owner)
}

func (r *Repository) GetByID(id, owner string) (*Code, error) {
	filter, args := ownerFilter(owner, []interface{}{id})
	row := r.db.QueryRow(selectColumns+` WHERE id = ?`+filter, args...)

	code, err := scanCode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCodeNotFound
	}
	return code, err
}

func (r *Repository) List(owner string, limit, offset int) ([]*Code, error) {
	filter, args := ownerFilter(owner, nil)
	args = append(args, limit, offset)
	rows, err := r.db.Query(selectColumns+` WHERE 1 = 1`+filter+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []*Code{}
	for rows.Next() {
		code, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *Repository) Delete(id, owner string) error {
	filter, args := ownerFilter(owner, []interface{}{id})
	res, err := r.db.Exec(`DELETE FROM codes WHERE id = ?`+filter, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// DeleteExpired removes codes whose expiry is at or before now (unix seconds)
// and returns how many were removed.
func (r *Repository) DeleteExpired(now int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM codes WHERE expires_at IS NOT NULL AND expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) Count(owner string) (int64, error) {
	filter, args := ownerFilter(owner, nil)
	var n int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM codes WHERE 1 = 1`+filter, args...).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCode(s scanner) (*Code, error) {
	var code Code
	var expiresAt sql.NullInt64

	err := s.Scan(
		&code.ID,
		&code.Content,
		&code.LabelText,
		&code.FontSize,
		&code.Encoder,
		&code.ImageSHA256,
		&code.ImageSize,
		&code.Width,
		&code.Height,
		&code.CreatedBy,
		&code.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		code.ExpiresAt = new(int64)
		*code.ExpiresAt = expiresAt.Int64
	}
	return &code, nil
}
