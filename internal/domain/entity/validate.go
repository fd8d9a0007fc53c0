package entity

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// decimal.Decimal is checked by sign; its float64 form underflows to -0 for tiny negatives
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return float64(d.Sign())
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Validate checks the field constraints of a product and its supplier.
func (p Product) Validate() error {
	err := validatorInstance().Struct(p)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.StructNamespace() == "Product.Price" && fe.Tag() == "gte" {
			msgs = append(msgs, fmt.Sprintf("Price must be >= 0, got %s", p.Price.String()))
			continue
		}
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Product.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
