package entity

import "time"

// APIKey stores only the SHA-256 hash of the issued key. The raw key is
// returned exactly once, at creation time.
type APIKey struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"-"`
	Prefix     string     `json:"prefix"`
	UserID     int        `json:"user_id"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// APIKeyCreated is the creation response, carrying the raw key.
type APIKeyCreated struct {
	APIKey
	RawKey string `json:"key"`
}

/*
MySQL schema:

CREATE TABLE api_keys (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	key_hash VARCHAR(64) NOT NULL,
	user_id INT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	expires_at TIMESTAMP NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_used_at TIMESTAMP NULL
);

CREATE UNIQUE INDEX key_hash_idx ON api_keys(key_hash);
CREATE INDEX api_keys_user_idx ON api_keys(user_id);
*/
