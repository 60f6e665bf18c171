package common

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	emailPattern   = regexp.MustCompile(`^[\w.]+@\w+\.[a-z]{2,3}$`)
	contactPattern = regexp.MustCompile(`^\d{10}$`)

	passwordSpecials = "@$!%*?&"

	// MinInitialBalance is the smallest balance an account may open with.
	MinInitialBalance = decimal.NewFromInt(2000)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return ValidContact(fl.Field().String())
	})
	v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	v.RegisterValidation("ledgeremail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// ValidateStruct checks a request payload against its validate tags.
func ValidateStruct(payload interface{}) error {
	return validate.Struct(payload)
}

// ValidEmail reports whether s looks like local-part@domain.tld with a
// two or three letter lowercase TLD.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword reports whether s is at least 8 characters and contains an
// uppercase letter, a lowercase letter, a digit and a special character,
// using no characters outside those classes.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

// ValidContact reports whether s is exactly 10 decimal digits.
func ValidContact(s string) bool {
	return contactPattern.MatchString(s)
}

// ValidInitialBalance reports whether the opening balance meets the minimum.
func ValidInitialBalance(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(MinInitialBalance)
}
