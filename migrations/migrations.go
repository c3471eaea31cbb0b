package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			hashed_password VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateAPIKeys creates the api_keys table if it does not exist.
func AutoMigrateAPIKeys(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS api_keys (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			key_hash VARCHAR(64) NOT NULL UNIQUE,
			user_id INT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMP NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_used_at TIMESTAMP NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateVoices creates the voices table if it does not exist.
func AutoMigrateVoices(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS voices (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			language VARCHAR(8) NOT NULL,
			description TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			sample_text TEXT NOT NULL,
			original_file_path VARCHAR(512) NOT NULL,
			cache_file_path VARCHAR(512),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, query, retries)
}
