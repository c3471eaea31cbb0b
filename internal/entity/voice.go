package entity

import (
	"fmt"
	"time"
)

// Voice processing statuses.
const (
	VoiceStatusPending    = "pending"
	VoiceStatusProcessing = "processing"
	VoiceStatusReady      = "ready"
	VoiceStatusFailed     = "failed"
)

// Supported voice languages.
const (
	LanguageEN = "en"
	LanguageUK = "uk"
	LanguageRU = "ru"
)

type Voice struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	Name             string    `json:"name"`
	Language         string    `json:"language"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	SampleText       string    `json:"sample_text"`
	OriginalFilePath string    `json:"-"`
	CacheFilePath    string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CacheKey is the Redis key holding the processed voice metadata.
func (v *Voice) CacheKey() string {
	return fmt.Sprintf("voice:%d:cache", v.ID)
}

// ValidLanguage reports whether lang is one of the supported codes.
func ValidLanguage(lang string) bool {
	switch lang {
	case LanguageEN, LanguageUK, LanguageRU:
		return true
	}
	return false
}

/*
MySQL schema:

CREATE TABLE voices (
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
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX voices_user_idx ON voices(user_id);
*/
