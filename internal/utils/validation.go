package utils

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator represents a validation function
type Validator[T any] func(T) error

// ValidatorChain allows chaining multiple validators
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: "cannot be empty",
			}
		}
		return nil
	}
}

// IsOneOf validates that a value is one of the allowed values
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, allowedValue := range allowed {
			if value == allowedValue {
				return nil
			}
		}

		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be one of: %v", allowed),
		}
	}
}

// InRange validates that an int lies within [min, max]
func InRange(field string, min, max int) Validator[int] {
	return func(value int) error {
		if value < min || value > max {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: fmt.Sprintf("must be between %d and %d", min, max),
			}
		}
		return nil
	}
}

// IsHostPort validates a "host:port" listen address
func IsHostPort(field string) Validator[string] {
	return func(value string) error {
		if _, _, err := net.SplitHostPort(value); err != nil {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: err.Error(),
			}
		}
		return nil
	}
}

// ValidateHTTPMethod validates that a string is a valid HTTP method
func ValidateHTTPMethod(field string) Validator[string] {
	return IsOneOf(field, "GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS")
}
