package checkout

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"skinker-shop/internal/cart"
	"skinker-shop/internal/model"
	"skinker-shop/internal/money"

	"github.com/shopspring/decimal"
)

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"money": money.Format,
}).Parse(`¡Hola! Acabo de hacer un pedido en la página:

*Cliente:* {{ .Contact.Name }}
*Teléfono:* {{ .Contact.Phone }}

*Pedido:*
{{ range .Items }}• {{ .Name }} x {{ .Quantity }}
{{ end }}
*Total:* {{ money .Total }}

¿Me confirman los datos para el envío?`))

type summaryData struct {
	Contact model.Contact
	Items   []cart.Item
	Total   decimal.Decimal
}

// Summary renders the plain-text order message sent over WhatsApp.
func Summary(contact model.Contact, items []cart.Item, total decimal.Decimal) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, summaryData{Contact: contact, Items: items, Total: total}); err != nil {
		return "", fmt.Errorf("failed to render order summary: %w", err)
	}
	return buf.String(), nil
}

// WhatsAppLink builds a wa.me deep link that opens a chat with phone and the
// summary pre-filled.
func WhatsAppLink(phone, summary string) string {
	// QueryEscape encodes spaces as "+", which WhatsApp shows literally.
	text := strings.ReplaceAll(url.QueryEscape(summary), "+", "%20")
	return "https://wa.me/" + model.PhoneDigits(phone) + "?text=" + text
}
