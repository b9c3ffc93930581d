package auth

import "errors"

var (
	ErrPhoneRequired = errors.New("Phone number is required")
	ErrInvalidPhone  = errors.New("Invalid phone number")
	ErrInvalidOTP    = errors.New("Invalid OTP")
)
