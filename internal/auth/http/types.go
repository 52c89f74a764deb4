package http

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	sapPattern   = regexp.MustCompile(`^[0-9]+$`)
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() error {
	if !emailPattern.MatchString(r.Email) {
		return errors.New("Please enter a valid email address")
	}
	if len(r.Password) < 6 {
		return errors.New("Password must be at least 6 characters long")
	}
	return nil
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
	SAPNumber string `json:"sapNumber"`
}

// validate applies the sign-up form rules locally, before any identity
// provider call is made.
func (r *signupRequest) validate() error {
	if !emailPattern.MatchString(r.Email) {
		return errors.New("Please enter a valid email address")
	}
	if len(r.Password) < 6 {
		return errors.New("Password must be at least 6 characters long")
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("First name and last name are required")
	}
	if r.BirthDate == "" {
		return errors.New("Birth date is required")
	}
	if !phonePattern.MatchString(r.Phone) {
		return errors.New("Please enter a valid 10-digit phone number")
	}
	if len(r.SAPNumber) < 8 || !sapPattern.MatchString(r.SAPNumber) {
		return errors.New("Please enter a valid SAP number (at least 8 digits)")
	}
	return nil
}
