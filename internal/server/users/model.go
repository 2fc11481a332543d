package users

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Verified     bool
	CreatedAt    time.Time
}
