package models

import (
	"time"

	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

type User struct {
	ID               int64
	Email            string
	Pseudo           string
	PasswordHash     []byte
	Role             vocab.Role
	TotemID          *int64
	Locked           bool
	FailedLoginCount int
	CreatedAt        time.Time
}

func (u *User) HasTotem() bool {
	return u.TotemID != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == vocab.RoleAdmin
}

// Totem is the avatar a user picks once before publishing.
type Totem struct {
	ID          int64
	Name        string
	Description string
	PictureKey  string
	// PictureURL is a short-lived presigned link filled in on read.
	PictureURL string
}
