package model

import "errors"

// Store-level errors. The repository maps driver failures onto these so the
// service layer never inspects driver error codes.
var (
	ErrDuplicateAccount = errors.New("account already exists for this email")
	ErrAccountNotFound  = errors.New("account not found")
)
