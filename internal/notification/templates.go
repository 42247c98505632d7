package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"skinker-shop/internal/model"
	"skinker-shop/internal/money"

	"github.com/shopspring/decimal"
)

const (
	customerSubject  = "¡Gracias por tu compra en Skinker Shop!"
	testEmailSubject = "Prueba de Conexión - Skinker Shop"
)

func adminSubject(customerName string) string {
	return "Nueva orden recibida de " + customerName
}

var templateFuncs = template.FuncMap{
	"money": money.Format,
	"subtotal": func(item model.OrderItemRequest) decimal.Decimal {
		return item.Subtotal()
	},
	"shortID": func(order model.Order) string {
		return order.ID.String()[:8]
	},
}

var adminTemplate = template.Must(template.New("admin").Funcs(templateFuncs).Parse(`
<h1>Nueva Orden #{{ shortID .Order }}</h1>
<p><strong>Cliente:</strong> {{ .Order.CustomerName }}</p>
<p><strong>Email:</strong> {{ .Order.CustomerEmail }}</p>
<p><strong>Teléfono:</strong> {{ .Order.CustomerPhone }}</p>
<p><strong>Total:</strong> {{ money .Order.TotalAmount }}</p>
<h3>Items:</h3>
<ul>
{{- range .Items }}
  <li>{{ .Name }} x {{ .Quantity }} - {{ money (subtotal .) }}</li>
{{- end }}
</ul>
`))

var customerTemplate = template.Must(template.New("customer").Funcs(templateFuncs).Parse(`
<h1>¡Hola {{ .Order.CustomerName }}!</h1>
<p>Hemos recibido tu pedido con éxito. Pronto nos pondremos en contacto contigo para coordinar la entrega.</p>
<hr>
<h3>Resumen de tu compra:</h3>
<ul>
{{- range .Items }}
  <li>{{ .Name }} x {{ .Quantity }} - {{ money (subtotal .) }}</li>
{{- end }}
</ul>
<p><strong>Total pagado:</strong> {{ money .Order.TotalAmount }}</p>
<hr>
<p>Gracias por confiar en nosotros.</p>
`))

const testEmailHTML = `<h1>¡Funciona!</h1><p>Si recibes esto, el backend está bien configurado.</p>`

type orderData struct {
	Order model.Order
	Items []model.OrderItemRequest
}

func render(tmpl *template.Template, data orderData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
