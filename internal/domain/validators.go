package domain

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateDisplayName checks that a display name is non-empty and reasonably sized.
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(name) > 64 {
		return fmt.Errorf("display name must be at most 64 characters")
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in cents).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateNonNegativeAmount checks that an amount is zero or positive. A
// cash-out of zero is legal — it means the player lost their whole stack.
func ValidateNonNegativeAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %d", amount)
	}
	return nil
}

// ValidateStakes checks the optional blind metadata. Both zero means no
// stakes recorded; otherwise both must be positive and ordered.
func ValidateStakes(smallBlind, bigBlind int64) error {
	if smallBlind == 0 && bigBlind == 0 {
		return nil
	}
	if smallBlind <= 0 || bigBlind <= 0 {
		return fmt.Errorf("blinds must be positive when set")
	}
	if smallBlind > bigBlind {
		return fmt.Errorf("small blind %d exceeds big blind %d", smallBlind, bigBlind)
	}
	return nil
}
