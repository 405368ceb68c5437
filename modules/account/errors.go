package account

import "errors"

var (
	ErrInvalidCredentials = errors.New("account.invalid_credentials")
	ErrInvalidUserEntry   = errors.New("account.invalid_user_entry")
)
