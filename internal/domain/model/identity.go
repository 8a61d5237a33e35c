package model

import "time"

// TelegramIdentity is the authenticated identity extracted from a verified
// mini-app payload. It lives only for the duration of a request.
type TelegramIdentity struct {
	UserID   int64
	Username string
	IssuedAt time.Time

	// RawUser keeps the original user field when it could not be parsed as JSON.
	RawUser string
}

// Authenticated reports whether the identity names a concrete user.
func (id *TelegramIdentity) Authenticated() bool {
	return id != nil && id.UserID != 0
}
