package model

import "strings"

// MinPhoneDigits is the minimum number of digits a customer phone must carry.
const MinPhoneDigits = 7

// Contact holds the customer details collected at checkout.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PhoneDigits strips every character but the ASCII digits 0-9 from phone.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// Validate checks the contact fields. Email is optional unless requireEmail
// is set, but a non-empty email must contain "@".
func (c Contact) Validate(requireEmail bool) error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", MsgNameRequired)
	}

	if len(PhoneDigits(c.Phone)) < MinPhoneDigits {
		return NewValidationError("phone", MsgPhoneRequired)
	}

	email := strings.TrimSpace(c.Email)
	if email == "" && !requireEmail {
		return nil
	}
	if !strings.Contains(email, "@") {
		return NewValidationError("email", MsgEmailInvalid)
	}

	return nil
}
