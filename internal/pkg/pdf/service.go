// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/pkg/currency"
)

// Service renders order invoices as PDF
type Service struct {
	store *config.AppConfig
}

// NewService creates a new PDF service
func NewService(store *config.AppConfig) *Service {
	return &Service{store: store}
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; }
  h1 { font-size: 22px; }
  .meta { margin-bottom: 24px; color: #555; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
  td.amount, th.amount { text-align: right; }
  tfoot td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
  <h1>{{.StoreName}}</h1>
  <div class="meta">
    <div>Invoice {{.Order.OrderNumber}}</div>
    <div>Date: {{.Date}}</div>
    <div>Status: {{.Order.Status}}</div>
  </div>
  <div class="meta">
    <div>{{.Order.RecipientName}} ({{.Order.RecipientPhone}})</div>
    <div>{{.Order.Street}}</div>
    <div>{{.Order.Village}}, {{.Order.District}}, {{.Order.Regency}}, {{.Order.Province}} {{.Order.PostalCode}}</div>
  </div>
  <table>
    <thead>
      <tr><th>Item</th><th>Size</th><th>Qty</th><th class="amount">Price</th><th class="amount">Total</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Size}}</td>
        <td>{{.Quantity}}</td>
        <td class="amount">{{.UnitPrice}}</td>
        <td class="amount">{{.TotalPrice}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr><td colspan="4">Subtotal</td><td class="amount">{{.SubTotal}}</td></tr>
      {{if .Discount}}<tr><td colspan="4">Discount</td><td class="amount">-{{.Discount}}</td></tr>{{end}}
      <tr><td colspan="4">Shipping ({{.Order.Carrier}})</td><td class="amount">{{.Shipping}}</td></tr>
      <tr><td colspan="4">Total</td><td class="amount">{{.Total}}</td></tr>
    </tfoot>
  </table>
</body>
</html>
`))

type invoiceItem struct {
	Name       string
	Size       string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

type invoiceData struct {
	StoreName string
	Date      string
	Order     *order.Order
	Items     []invoiceItem
	SubTotal  string
	Discount  string
	Shipping  string
	Total     string
}

// GenerateInvoice renders a PDF invoice for an order
func (s *Service) GenerateInvoice(ord *order.Order) ([]byte, error) {
	items := make([]invoiceItem, 0, len(ord.Items))
	for _, it := range ord.Items {
		items = append(items, invoiceItem{
			Name:       it.ProductName,
			Size:       it.Size,
			Quantity:   it.Quantity,
			UnitPrice:  currency.FormatIDR(it.UnitPrice),
			TotalPrice: currency.FormatIDR(it.TotalPrice),
		})
	}

	data := invoiceData{
		StoreName: s.store.StoreName,
		Date:      ord.CreatedAt.Format("2 January 2006"),
		Order:     ord,
		Items:     items,
		SubTotal:  currency.FormatIDR(ord.SubTotal),
		Shipping:  currency.FormatIDR(ord.ShippingCost),
		Total:     currency.FormatIDR(ord.TotalAmount),
	}
	if ord.DiscountAmount > 0 {
		data.Discount = currency.FormatIDR(ord.DiscountAmount)
	}

	var html bytes.Buffer
	if err := invoiceTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(&html)
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}
