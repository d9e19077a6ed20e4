package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	for _, in := range []string{"9876543210", "+91 98765 43210", "09876543210", "919876543210"} {
		got, err := FormatPhoneNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, "9876543210", got, in)
	}
	for _, bad := range []string{"12345", "5876543210", "98765432101"} {
		_, err := FormatPhoneNumber(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	valid, _ := ValidatePassword("secret123")
	assert.True(t, valid)
	for _, bad := range []string{"short1", "onlyletters", "12345678"} {
		valid, _ := ValidatePassword(bad)
		assert.False(t, valid, bad)
	}
}

func validAddress() AddressInput {
	return AddressInput{
		Name:         "Asha Rao",
		Phone:        "+91 98765 43210",
		AddressLine1: "12, MG Road",
		City:         "bengaluru",
		State:        "karnataka",
		Pincode:      "560001",
		Type:         "home",
	}
}

func TestNormalizeAndValidateAddress(t *testing.T) {
	in := NormalizeAddress(validAddress())
	assert.Equal(t, "9876543210", in.Phone)
	assert.Equal(t, "Bengaluru", in.City)
	assert.Equal(t, "HOME", in.Type)
	assert.Empty(t, ValidateAddressFields(in))
}

func TestValidateAddressFieldsRejects(t *testing.T) {
	cases := map[string]func(a *AddressInput){
		"phone":          func(a *AddressInput) { a.Phone = "12345" },
		"pincode":        func(a *AddressInput) { a.Pincode = "060001" },
		"type":           func(a *AddressInput) { a.Type = "hostel" },
		"address_line_1": func(a *AddressInput) { a.AddressLine1 = "" },
		"city":           func(a *AddressInput) { a.City = "" },
		"name":           func(a *AddressInput) { a.Name = "" },
	}
	for field, mutate := range cases {
		in := validAddress()
		mutate(&in)
		errs := ValidateAddressFields(NormalizeAddress(in))
		require.NotEmpty(t, errs, field)
		assert.Equal(t, field, errs[0].Field)
	}
}

func TestNormalizeTransactionID(t *testing.T) {
	id, err := NormalizeTransactionID("  UPI_4123-9988 ")
	require.NoError(t, err)
	assert.Equal(t, "UPI_4123-9988", id)

	for _, bad := range []string{"", "12345", "has space 123", "semi;colon1"} {
		_, err := NormalizeTransactionID(bad)
		assert.Error(t, err, bad)
	}
}
