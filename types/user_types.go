package types

import (
	"context"
	"time"
)

type User struct {
	UserID       int64
	ChatID       int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the durable per-chat preference record.
type Profile struct {
	ChatID        int64     `json:"chat_id"`
	Lang          string    `json:"lang,omitempty"`
	TranslateLang string    `json:"translate_lang,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UserStore interface {
	UpsertUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID int64) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, chatID int64) (Profile, error)
	SaveProfile(ctx context.Context, profile Profile) error
}
