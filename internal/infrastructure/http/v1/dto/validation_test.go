package dto

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tenderForm struct {
	PaymentMethod string `binding:"required,payment_method"`
	AccountType   string `binding:"omitempty,account_type"`
	Role          string `binding:"account_role"`
}

func failedTags(t *testing.T, err error) []string {
	t.Helper()
	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve), err)
	tags := make([]string, 0, len(ve))
	for _, fe := range ve {
		tags = append(tags, fe.Tag())
	}
	return tags
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(tenderForm{PaymentMethod: "cash", AccountType: "Asset", Role: "cash"}))
	assert.NoError(t, binding.Validator.ValidateStruct(tenderForm{PaymentMethod: "Credit"}))

	err := binding.Validator.ValidateStruct(tenderForm{PaymentMethod: "Barter"})
	assert.Equal(t, []string{"payment_method"}, failedTags(t, err))

	err = binding.Validator.ValidateStruct(tenderForm{PaymentMethod: "Cash", AccountType: "Vault", Role: "petty_cash"})
	assert.ElementsMatch(t, []string{"account_type", "account_role"}, failedTags(t, err))
}
