// Package models contains the persistent entity types shared by the server's
// repositories and services.
package models

import "time"

// RoleUser is the role assigned to every account at registration.
const RoleUser = "user"

// User is an account row. PasswordHash is the PHC-encoded argon2id hash;
// the plaintext password is never stored. IsVerified starts false and is
// flipped exactly once, by verification redemption.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsVerified   bool
	CreatedAt    time.Time
}
