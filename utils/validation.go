package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	indianPhoneRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
	nameRegex        = regexp.MustCompile(`^[a-zA-Z][a-zA-Z .'-]*$`)
	hasLetter        = regexp.MustCompile(`[A-Za-z]`)
	hasNumber        = regexp.MustCompile(`[0-9]`)
	otpRegex         = regexp.MustCompile(`^\d{6}$`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeString trims input and strips HTML tags
func SanitizeString(input string) string {
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(input, ""))
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePassword checks length and requires letters and digits
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return false, fmt.Sprintf("Password must not exceed %d characters", MaxPasswordLength)
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return false, "Password must contain at least one letter and one number"
	}
	return true, ""
}

// FormatPhoneNumber strips spaces, dashes and a +91/0 prefix from an Indian mobile number
func FormatPhoneNumber(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(cleaned, "+91"):
		cleaned = cleaned[3:]
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		cleaned = cleaned[2:]
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "0"):
		cleaned = cleaned[1:]
	}
	if !indianPhoneRegex.MatchString(cleaned) {
		return "", fmt.Errorf("Phone must be a valid 10-digit mobile number")
	}
	return cleaned, nil
}

// ValidatePhone validates and formats a required phone number
func ValidatePhone(phone string) (bool, string) {
	if strings.TrimSpace(phone) == "" {
		return false, "Phone is required"
	}
	formatted, err := FormatPhoneNumber(phone)
	if err != nil {
		return false, err.Error()
	}
	return true, formatted
}

// ValidateName validates a person's name
func ValidateName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return false, "Name must be at least 2 characters long"
	}
	if len(name) > 60 {
		return false, "Name must not exceed 60 characters"
	}
	if !nameRegex.MatchString(name) {
		return false, "Name can only contain letters, spaces, dots, apostrophes and hyphens"
	}
	return true, ""
}

// ValidateOTPFormat checks the OTP is six digits
func ValidateOTPFormat(otp string) bool {
	return otpRegex.MatchString(strings.TrimSpace(otp))
}
