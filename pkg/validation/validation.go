package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// EmailRegex validates email format
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// InviteCodeRegex validates room invite codes
	InviteCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)
)

// ValidateEmail validates email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUserName validates a display name
func ValidateUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("name is too long (max 50 characters)")
	}
	return nil
}

// ValidatePassword validates password
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password is too long (max 128 characters)")
	}
	return nil
}

// ValidateRoomName validates a room name
func ValidateRoomName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("room name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("room name is too long (max 100 characters)")
	}
	return nil
}

// ValidateInviteCode validates a room invite code
func ValidateInviteCode(code string) error {
	if code == "" {
		return fmt.Errorf("invite code is required")
	}
	if !InviteCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid invite code format")
	}
	return nil
}
