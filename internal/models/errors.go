package models

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrPhoneNumberTaken = errors.New("client with this phone number already exists")
	ErrInvalidReference = errors.New("referenced client or doctor does not exist")
)
