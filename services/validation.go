package services

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsValidEmail applies the storefront's loose address check.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type productForm struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Description string `validate:"required"`
}

type orderForm struct {
	ProductID string `validate:"required"`
	Email     string `validate:"required,simple_email"`
}

// checkOrderForm reports missing fields before a malformed email.
func checkOrderForm(productID, email, missingMsg string) *ServiceError {
	err := validate.Struct(orderForm{ProductID: productID, Email: email})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && lo.SomeBy(verrs, func(fe validator.FieldError) bool { return fe.Tag() == "required" }) {
		return InvalidInput(missingMsg)
	}
	return InvalidInput("Invalid email address")
}

func parsePrice(raw string) (float64, *ServiceError) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 || price > MaxPrice {
		return 0, InvalidInput("Invalid price value")
	}
	return price, nil
}
