package service

import (
	"fmt"
	"regexp"

	"github.com/cinelist/cinelist/internal/errs"
)

// Registration rules: username at least 5 alphanumeric characters, password
// at least 6 characters, email must look like an address.
var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{5,}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must be at least 5 alphanumeric characters", errs.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", errs.ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: email does not appear to be valid", errs.ErrValidation)
	}
	return nil
}
