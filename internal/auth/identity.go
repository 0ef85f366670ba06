// Package auth resolves the request identity from the session cookie.
package auth

import "github.com/pressroom/internal/db"

// Identity is the caller of a request. The zero value is an anonymous visitor.
type Identity struct {
	UserID        uint
	Username      string
	IsStaff       bool
	Authenticated bool
}

// Anonymous returns the identity of a visitor without a session.
func Anonymous() Identity {
	return Identity{}
}

// FromUser builds the identity of a logged in user.
func FromUser(user *db.User) Identity {
	if user == nil {
		return Anonymous()
	}
	return Identity{
		UserID:        user.ID,
		Username:      user.Username,
		IsStaff:       user.IsStaff,
		Authenticated: true,
	}
}

// Owns reports whether the identity is the given author.
func (i Identity) Owns(authorID uint) bool {
	return i.Authenticated && i.UserID != 0 && i.UserID == authorID
}
