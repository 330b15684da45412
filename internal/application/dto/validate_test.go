package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
)

func TestValidate_RegisterOK(t *testing.T) {
	err := dto.Validate(dto.RegisterRequest{Email: "a@x.com", Password: "Abc123", Name: "Ann"})
	assert.NoError(t, err)
}

func TestValidate_PasswordDebil(t *testing.T) {
	err := dto.Validate(dto.RegisterRequest{Email: "a@x.com", Password: "abcdef", Name: "Ann"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr.Field)
}

func TestValidate_EmailInvalidoNombraCampoJSON(t *testing.T) {
	err := dto.Validate(dto.LoginRequest{Email: "no-es-email", Password: "secreto"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)
}

func TestValidate_PedidoSinItems(t *testing.T) {
	err := dto.Validate(dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_PedidoCantidadCero(t *testing.T) {
	err := dto.Validate(dto.CreateOrderRequest{Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 0}}})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)
}

func TestValidate_EstadoDesconocido(t *testing.T) {
	err := dto.Validate(dto.UpdateOrderStatusRequest{Status: "SHIPPED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoError(t, dto.Validate(dto.UpdateOrderStatusRequest{Status: "DELIVERED"}))
}
