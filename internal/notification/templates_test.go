package notification

import (
	"testing"

	"skinker-shop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscapesCustomerInput(t *testing.T) {
	data := orderData{
		Order: model.Order{
			ID:           uuid.New(),
			CustomerName: `<script>alert("x")</script>`,
			TotalAmount:  decimal.NewFromInt(90000),
		},
		Items: []model.OrderItemRequest{
			{Name: "Labial <b>Mate</b>", Quantity: 2, Price: decimal.NewFromInt(45000)},
		},
	}

	for _, tmpl := range []struct {
		name string
		html func() (string, error)
	}{
		{"admin", func() (string, error) { return render(adminTemplate, data) }},
		{"customer", func() (string, error) { return render(customerTemplate, data) }},
	} {
		t.Run(tmpl.name, func(t *testing.T) {
			html, err := tmpl.html()

			require.NoError(t, err)
			assert.NotContains(t, html, "<script>")
			assert.Contains(t, html, "&lt;script&gt;")
			assert.NotContains(t, html, "<b>Mate</b>")
			assert.Contains(t, html, "x 2 - $")
		})
	}
}

func TestAdminSubject(t *testing.T) {
	assert.Equal(t, "Nueva orden recibida de Ana", adminSubject("Ana"))
}
