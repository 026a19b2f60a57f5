package handler

import "net/mail"

const minPasswordLength = 6

func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
