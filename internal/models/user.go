package models

// User is a registered account. Only the bcrypt hash is stored, never the
// plaintext password.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
