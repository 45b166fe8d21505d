// Package models holds the CLI's locally persisted state.
package models

import "time"

// Session is a successful login remembered for one server address.
type Session struct {
	Server      string
	UserID      int64
	Pseudo      string
	Role        string
	AccessToken string
	SavedAt     time.Time
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}
