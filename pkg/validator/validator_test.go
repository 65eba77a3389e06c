package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseRequest struct {
	BuyerEmail string `json:"buyer_email" validate:"required,email"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(purchaseRequest{BuyerEmail: "buyer@example.com"}))
}

func TestValidate_RequiredField(t *testing.T) {
	err := Validate(purchaseRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["BuyerEmail"])
}

func TestValidate_EmailFormat(t *testing.T) {
	err := Validate(purchaseRequest{BuyerEmail: "not-an-email"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["BuyerEmail"])
	assert.Contains(t, valErr.Error(), "BuyerEmail")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"buyer_email":"a@b.co"}`))
		var req purchaseRequest
		require.NoError(t, DecodeAndValidate(r, &req))
		assert.Equal(t, "a@b.co", req.BuyerEmail)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/orders", strings.NewReader(`{`))
		var req purchaseRequest
		err := DecodeAndValidate(r, &req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("fails validation", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"buyer_email":"nope"}`))
		var req purchaseRequest
		err := DecodeAndValidate(r, &req)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}
