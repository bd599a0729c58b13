// Package validation schema-checks item payloads before they reach the
// repository. All checks are pure and collect every violation instead of
// stopping at the first one; fields are always checked in the same order so
// the result is deterministic.
package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/stocktrail/backend/internal/models"
)

// Field limits for inventory items
const (
	NameMinLength        = 2
	NameMaxLength        = 100
	DescriptionMaxLength = 500
	QuantityMax          = 999999
	PriceMax             = 999999.99
	CategoryMaxLength    = 50
	SKUMaxLength         = 50
)

// skuRegex restricts SKUs to letters, numbers, and hyphens
var skuRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// FieldError describes a single rule violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations for a payload
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// ValidateCreate checks the full item schema and returns all violations.
// The name is trimmed in place; callers should persist the trimmed value.
func ValidateCreate(in *models.CreateItemRequest) Errors {
	var errs Errors

	in.Name = strings.TrimSpace(in.Name)
	errs = append(errs, checkName(in.Name)...)
	errs = append(errs, checkDescription(in.Description)...)
	errs = append(errs, checkQuantity(in.Quantity)...)
	errs = append(errs, checkPrice(in.Price)...)
	errs = append(errs, checkCategory(in.Category)...)
	errs = append(errs, checkSKU(in.SKU)...)

	return errs
}

// ValidateUpdate checks only the fields present in the patch; each supplied
// field follows the same rule as the full schema
func ValidateUpdate(in *models.UpdateItemRequest) Errors {
	var errs Errors

	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		errs = append(errs, checkName(*in.Name)...)
	}
	if in.Description != nil {
		errs = append(errs, checkDescription(*in.Description)...)
	}
	if in.Quantity != nil {
		errs = append(errs, checkQuantity(*in.Quantity)...)
	}
	if in.Price != nil {
		errs = append(errs, checkPrice(*in.Price)...)
	}
	if in.Category != nil {
		errs = append(errs, checkCategory(*in.Category)...)
	}
	if in.SKU != nil {
		errs = append(errs, checkSKU(*in.SKU)...)
	}

	return errs
}

func checkName(name string) Errors {
	if name == "" {
		return Errors{{Field: "name", Message: "product name is required"}}
	}
	// Limits count characters, not bytes, so multibyte names are not cut short
	if utf8.RuneCountInString(name) < NameMinLength {
		return Errors{{Field: "name", Message: "product name must be at least 2 characters"}}
	}
	if utf8.RuneCountInString(name) > NameMaxLength {
		return Errors{{Field: "name", Message: "product name must be less than 100 characters"}}
	}
	return nil
}

func checkDescription(description string) Errors {
	if utf8.RuneCountInString(description) > DescriptionMaxLength {
		return Errors{{Field: "description", Message: "description must be less than 500 characters"}}
	}
	return nil
}

func checkQuantity(quantity int) Errors {
	if quantity < 0 {
		return Errors{{Field: "quantity", Message: "quantity cannot be negative"}}
	}
	if quantity > QuantityMax {
		return Errors{{Field: "quantity", Message: "quantity is too large"}}
	}
	return nil
}

func checkPrice(price float64) Errors {
	if price < 0 {
		return Errors{{Field: "price", Message: "price cannot be negative"}}
	}
	if price > PriceMax {
		return Errors{{Field: "price", Message: "price is too large"}}
	}
	if !hasAtMostTwoDecimals(price) {
		return Errors{{Field: "price", Message: "price can only have up to 2 decimal places"}}
	}
	return nil
}

func checkCategory(category string) Errors {
	if category == "" {
		return Errors{{Field: "category", Message: "category is required"}}
	}
	if utf8.RuneCountInString(category) > CategoryMaxLength {
		return Errors{{Field: "category", Message: "category must be less than 50 characters"}}
	}
	return nil
}

func checkSKU(sku string) Errors {
	if sku == "" {
		return Errors{{Field: "sku", Message: "sku is required"}}
	}
	if utf8.RuneCountInString(sku) > SKUMaxLength {
		return Errors{{Field: "sku", Message: "sku must be less than 50 characters"}}
	}
	if !skuRegex.MatchString(sku) {
		return Errors{{Field: "sku", Message: "sku can only contain letters, numbers, and hyphens"}}
	}
	return nil
}

// hasAtMostTwoDecimals reports whether price rounds to itself at 2 decimal
// places. The epsilon absorbs binary float noise (9.99*100 is not exactly 999).
func hasAtMostTwoDecimals(price float64) bool {
	scaled := price * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
