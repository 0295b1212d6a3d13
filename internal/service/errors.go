package service

import "errors"

// Business errors surfaced by the service layer. Handlers map these onto
// HTTP status codes; everything else becomes a 500.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBoardNotFound        = errors.New("board not found")
	ErrNotBoardOwner        = errors.New("board does not belong to the user")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInternalServer       = errors.New("internal server error")
	ErrInvalidAction        = errors.New("invalid action data")
	ErrInvalidDocument      = errors.New("invalid document: size and pixels are required")
)
