package code

import "time"

// Code is a stored access code. Only the digest is persisted; the plaintext
// exists once, in the response that issued it.
type Code struct {
	ID            int64
	CardID        int64
	CodeHash      string
	IsActive      bool
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}

// Issued pairs the stored row with the plaintext handed to the caller.
type Issued struct {
	Code      *Code
	Plaintext string
}
