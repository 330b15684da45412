package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/pdf"
)

func TestOrderReceipt_GeneraPDF(t *testing.T) {
	o := &entity.Order{
		ID:        "7d1c1f36-3a44-4c5e-9a53-2f1e0c1b9a10",
		UserID:    "u-1",
		Status:    entity.OrderStatusPending,
		Total:     decimal.NewFromInt(35000),
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		User:      &entity.UserSummary{ID: "u-1", Name: "Ana", Email: "ana@x.com"},
		Items: []entity.OrderItem{
			{ProductID: "p-1", Quantity: 2, Price: decimal.NewFromInt(10000), Product: &entity.Product{Name: "Ibuprofeno 400mg"}},
			{ProductID: "p-2", Quantity: 1, Price: decimal.NewFromInt(15000)},
		},
	}

	b, err := pdf.NewReceiptGenerator("Farmacia").OrderReceipt(o)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "debe empezar con la firma PDF")
}

func TestOrderReceipt_PedidoNil(t *testing.T) {
	_, err := pdf.NewReceiptGenerator("Farmacia").OrderReceipt(nil)
	assert.Error(t, err)
}
