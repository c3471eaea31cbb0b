package repository

import (
	"context"
	"database/sql"

	"tts-service/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, email, hashed_password, is_active, is_superuser, created_at FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, email, hashed_password, is_active, is_superuser, created_at FROM users WHERE email = ?`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (email, hashed_password, is_active, is_superuser) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Email, user.HashedPassword, user.IsActive, user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return r.GetUserByID(ctx, user.ID)
}
