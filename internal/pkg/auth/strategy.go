package auth

import "time"

// Claims describe the identity carried by a token.
type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// Strategy issues and verifies bearer tokens.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
