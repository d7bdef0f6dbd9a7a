package dto

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/posting"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the domain binding rules to gin's validator:
// payment_method, account_type and account_role. Document requests cannot be
// validated without them, so callers must treat an error as fatal.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("binding validator is %T, not *validator.Validate", binding.Validator.Engine())
			return
		}
		rules := map[string]validator.Func{
			"payment_method": func(fl validator.FieldLevel) bool {
				_, err := posting.ParsePaymentMethod(fl.Field().String())
				return err == nil
			},
			"account_type": func(fl validator.FieldLevel) bool {
				_, err := accounts.ParseAccountType(fl.Field().String())
				return err == nil
			},
			"account_role": func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return s == "" || accounts.Role(s).Valid()
			},
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("register %s validator: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}

// FieldErrors maps each failed field to the rule it broke.
func FieldErrors(err error) (map[string]string, bool) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out, true
}
