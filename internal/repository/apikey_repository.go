package repository

import (
	"context"
	"database/sql"
	"time"

	"tts-service/internal/entity"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db}
}

func (r *APIKeyRepository) scanRow(row *sql.Row) (*entity.APIKey, error) {
	key := &entity.APIKey{}
	err := row.Scan(&key.ID, &key.Name, &key.Key, &key.UserID, &key.IsActive,
		&key.ExpiresAt, &key.CreatedAt, &key.LastUsedAt)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) GetByID(ctx context.Context, id int) (*entity.APIKey, error) {
	query := `SELECT id, name, key_hash, user_id, is_active, expires_at, created_at, last_used_at FROM api_keys WHERE id = ?`
	return r.scanRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *APIKeyRepository) GetByHash(ctx context.Context, hash string) (*entity.APIKey, error) {
	query := `SELECT id, name, key_hash, user_id, is_active, expires_at, created_at, last_used_at FROM api_keys WHERE key_hash = ?`
	return r.scanRow(r.db.QueryRowContext(ctx, query, hash))
}

func (r *APIKeyRepository) ListByUser(ctx context.Context, userID, skip, limit int) ([]entity.APIKey, error) {
	query := `SELECT id, name, key_hash, user_id, is_active, expires_at, created_at, last_used_at FROM api_keys WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []entity.APIKey{}
	for rows.Next() {
		key := entity.APIKey{}
		err := rows.Scan(&key.ID, &key.Name, &key.Key, &key.UserID, &key.IsActive,
			&key.ExpiresAt, &key.CreatedAt, &key.LastUsedAt)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

func (r *APIKeyRepository) Create(ctx context.Context, key *entity.APIKey) (*entity.APIKey, error) {
	query := `INSERT INTO api_keys (name, key_hash, user_id, is_active, expires_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, key.Name, key.Key, key.UserID, key.IsActive, key.ExpiresAt)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, int(id))
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id int, at time.Time) error {
	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *APIKeyRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM api_keys WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
