package repository

import (
	"context"
	"database/sql"

	"tts-service/internal/entity"
)

type VoiceRepository struct {
	db *sql.DB
}

func NewVoiceRepository(db *sql.DB) *VoiceRepository {
	return &VoiceRepository{db}
}

const voiceColumns = `id, user_id, name, language, description, status, sample_text, original_file_path, COALESCE(cache_file_path, ''), created_at, updated_at`

func scanVoice(row *sql.Row) (*entity.Voice, error) {
	voice := &entity.Voice{}
	err := row.Scan(&voice.ID, &voice.UserID, &voice.Name, &voice.Language, &voice.Description,
		&voice.Status, &voice.SampleText, &voice.OriginalFilePath, &voice.CacheFilePath,
		&voice.CreatedAt, &voice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return voice, nil
}

func (r *VoiceRepository) GetByID(ctx context.Context, id int) (*entity.Voice, error) {
	query := `SELECT ` + voiceColumns + ` FROM voices WHERE id = ?`
	return scanVoice(r.db.QueryRowContext(ctx, query, id))
}

func (r *VoiceRepository) ListByUser(ctx context.Context, userID, skip, limit int) ([]entity.Voice, error) {
	query := `SELECT ` + voiceColumns + ` FROM voices WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voices := []entity.Voice{}
	for rows.Next() {
		voice := entity.Voice{}
		err := rows.Scan(&voice.ID, &voice.UserID, &voice.Name, &voice.Language, &voice.Description,
			&voice.Status, &voice.SampleText, &voice.OriginalFilePath, &voice.CacheFilePath,
			&voice.CreatedAt, &voice.UpdatedAt)
		if err != nil {
			return nil, err
		}
		voices = append(voices, voice)
	}

	return voices, rows.Err()
}

func (r *VoiceRepository) Create(ctx context.Context, voice *entity.Voice) (*entity.Voice, error) {
	query := `INSERT INTO voices (user_id, name, language, description, status, sample_text, original_file_path) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, voice.UserID, voice.Name, voice.Language,
		voice.Description, voice.Status, voice.SampleText, voice.OriginalFilePath)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, int(id))
}

// UpdateStatus moves a voice through its processing lifecycle. The cache file
// path is set once processing succeeds.
func (r *VoiceRepository) UpdateStatus(ctx context.Context, id int, status, cacheFilePath string) error {
	query := `UPDATE voices SET status = ?, cache_file_path = NULLIF(?, ''), updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, cacheFilePath, id)
	return err
}

func (r *VoiceRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM voices WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
