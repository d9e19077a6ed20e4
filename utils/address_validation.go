package utils

import (
	"regexp"
	"strings"

	"github.com/Govind-619/Threadly/models"
)

var (
	addressLineRegex  = regexp.MustCompile(`^[a-zA-Z0-9\s,.'#\-/()]+$`)
	addressLine2Regex = regexp.MustCompile(`^[a-zA-Z0-9\s,.'#\-/()]*$`)
	cityRegex         = regexp.MustCompile(`^[a-zA-Z\s.]+$`)
	pincodeRegex      = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// AddressInput is the editable part of an address
type AddressInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Type         string `json:"type"`
	IsDefault    bool   `json:"is_default"`
}

// NormalizeAddress trims fields, upper-cases the type and formats city/state/phone
func NormalizeAddress(in AddressInput) AddressInput {
	in.Name = SanitizeString(in.Name)
	in.AddressLine1 = SanitizeString(in.AddressLine1)
	in.AddressLine2 = SanitizeString(in.AddressLine2)
	in.City = Title(strings.ToLower(SanitizeString(in.City)))
	in.State = Title(strings.ToLower(SanitizeString(in.State)))
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = models.AddressTypeHome
	}
	if formatted, err := FormatPhoneNumber(in.Phone); err == nil {
		in.Phone = formatted
	}
	return in
}

// ValidateAddressFields validates a normalized address
func ValidateAddressFields(in AddressInput) []FieldValidationError {
	errs := []FieldValidationError{}

	if valid, msg := ValidateName(in.Name); !valid {
		errs = append(errs, FieldValidationError{"name", msg})
	}

	if valid, msg := ValidatePhone(in.Phone); !valid {
		errs = append(errs, FieldValidationError{"phone", msg})
	}

	if in.AddressLine1 == "" {
		errs = append(errs, FieldValidationError{"address_line_1", "Address Line 1 is required"})
	} else {
		if len(in.AddressLine1) > 150 {
			errs = append(errs, FieldValidationError{"address_line_1", "Address Line 1 must not exceed 150 characters"})
		}
		if !addressLineRegex.MatchString(in.AddressLine1) {
			errs = append(errs, FieldValidationError{"address_line_1", "Address Line 1 contains invalid characters"})
		}
	}

	if len(in.AddressLine2) > 150 {
		errs = append(errs, FieldValidationError{"address_line_2", "Address Line 2 must not exceed 150 characters"})
	} else if !addressLine2Regex.MatchString(in.AddressLine2) {
		errs = append(errs, FieldValidationError{"address_line_2", "Address Line 2 contains invalid characters"})
	}

	if in.City == "" {
		errs = append(errs, FieldValidationError{"city", "City is required"})
	} else if len(in.City) > 100 || !cityRegex.MatchString(in.City) {
		errs = append(errs, FieldValidationError{"city", "City must only contain letters and spaces"})
	}

	if in.State == "" {
		errs = append(errs, FieldValidationError{"state", "State is required"})
	} else if len(in.State) > 100 {
		errs = append(errs, FieldValidationError{"state", "State must not exceed 100 characters"})
	}

	if !pincodeRegex.MatchString(in.Pincode) {
		errs = append(errs, FieldValidationError{"pincode", "Pincode must be a valid 6-digit Indian PIN (e.g., 600028)"})
	}

	switch in.Type {
	case models.AddressTypeHome, models.AddressTypeOffice, models.AddressTypeOther:
	default:
		errs = append(errs, FieldValidationError{"type", "Type must be one of HOME, OFFICE, OTHER"})
	}

	return errs
}
