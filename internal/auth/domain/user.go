package domain

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2id (PHC) or bcrypt encoded, never plaintext
	CreatedAt    time.Time
}
