// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("phone_intl", isIntlPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("transaction_type", isKnownTransactionType); err != nil {
		return err
	}
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(fl.Field().String())
}

func isIntlPhoneNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^\+\d{7,15}$`)
	return re.MatchString(fl.Field().String())
}

// Тип движения сверяется без учёта регистра: движок нормализует в верхний регистр.
func isKnownTransactionType(fl validator.FieldLevel) bool {
	switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
	case "IN", "OUT", "RETURN", "HANDOVER", "MAINTENANCE", "REPAIR":
		return true
	}
	return false
}
