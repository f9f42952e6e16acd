package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Field limits enforced on write.
const (
	MaxNameLength         = 50
	MaxDescriptionLength  = 250
	MaxAbbreviationLength = 15
	MaxSymbolLength       = 15
	MaxEmailLength        = 50
	MinPasswordLength     = 8
	MaxPasswordLength     = 128

	// Amounts are fixed-point NUMERIC(18,2): at most 16 integer digits and
	// exactly two fractional digits of precision.
	MaxAmountDigits     = 18
	AmountDecimalPlaces = 2
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateAmount checks that a monetary amount fits the ledger's fixed-point
// representation: no more than two decimal places and no overflow of the
// integer part.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Exponent() < -AmountDecimalPlaces {
		return fmt.Errorf("%w: amount has more than %d decimal places", ErrValidation, AmountDecimalPlaces)
	}

	limit := decimal.New(1, MaxAmountDigits-AmountDecimalPlaces)
	if amount.Abs().GreaterThanOrEqual(limit) {
		return fmt.Errorf("%w: amount exceeds %d integer digits", ErrValidation, MaxAmountDigits-AmountDecimalPlaces)
	}

	return nil
}

// ValidateName checks a display name for accounts, transactions, and tags.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxNameLength)
	}
	return nil
}

// ValidateDescription checks a transaction description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// ValidateAbbreviation checks a currency abbreviation. Empty is rejected
// because the (user, abbreviation) uniqueness constraint keys on it.
func ValidateAbbreviation(abbreviation string) error {
	abbreviation = strings.TrimSpace(abbreviation)

	if abbreviation == "" {
		return fmt.Errorf("%w: abbreviation is required", ErrValidation)
	}

	if len(abbreviation) > MaxAbbreviationLength {
		return fmt.Errorf("%w: abbreviation exceeds %d characters", ErrValidation, MaxAbbreviationLength)
	}

	return nil
}

// ValidateSymbol checks a currency symbol.
func ValidateSymbol(symbol string) error {
	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d characters", ErrValidation, MaxSymbolLength)
	}
	return nil
}

// ValidateEmail checks email format and length.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	if len(email) > MaxEmailLength {
		return fmt.Errorf("%w: email exceeds %d characters", ErrValidation, MaxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must not exceed %d characters", ErrValidation, MaxPasswordLength)
	}

	return nil
}
