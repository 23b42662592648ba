package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine is one purchased product.
type ReceiptLine struct {
	Name  string
	Qty   int
	Image string
	Price decimal.Decimal
}

// Receipt carries everything the purchase receipt shows.
type Receipt struct {
	OrderID       uint
	PurchasedAt   time.Time
	Lines         []ReceiptLine
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
	// ImageBaseURL is prefixed to site-relative image paths.
	ImageBaseURL string
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": FormatCurrency,
	"date":  func(t time.Time) string { return t.Format("Jan 2, 2006") },
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>View order receipt</title></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #fff; color: #111;">
<div style="max-width: 576px; margin: 0 auto;">
	<h1>Purchase Receipt</h1>
	<table style="width: 100%; margin-bottom: 16px;">
		<tr>
			<td><div style="color: #6b7280;">Order ID</div><div>{{.OrderID}}</div></td>
			<td><div style="color: #6b7280;">Purchase Date</div><div>{{date .PurchasedAt}}</div></td>
			<td><div style="color: #6b7280;">Price Paid</div><div>{{money .TotalPrice}}</div></td>
		</tr>
	</table>
	<table style="width: 100%; border: 1px solid #6b7280; border-radius: 8px; padding: 16px;">
		{{range .Lines}}
		<tr>
			<td style="width: 80px;"><img src="{{.Image}}" alt="{{.Name}}" width="80" style="border-radius: 4px;"></td>
			<td style="vertical-align: top;">{{.Name}} x {{.Qty}}</td>
			<td style="vertical-align: top; text-align: right;">{{money .Price}}</td>
		</tr>
		{{end}}
		<tr><td></td><td style="text-align: right;">Items:</td><td style="text-align: right;">{{money .ItemsPrice}}</td></tr>
		<tr><td></td><td style="text-align: right;">Tax:</td><td style="text-align: right;">{{money .TaxPrice}}</td></tr>
		<tr><td></td><td style="text-align: right;">Shipping:</td><td style="text-align: right;">{{money .ShippingPrice}}</td></tr>
		<tr><td></td><td style="text-align: right; font-weight: bold;">Total:</td><td style="text-align: right; font-weight: bold;">{{money .TotalPrice}}</td></tr>
	</table>
</div>
</body>
</html>`))

// ReceiptSubject is the subject line of the purchase receipt.
func ReceiptSubject(orderID uint) string {
	return fmt.Sprintf("Order Confirmation %d", orderID)
}

// RenderReceipt produces the HTML body of the purchase receipt.
func RenderReceipt(r Receipt) (string, error) {
	lines := make([]ReceiptLine, len(r.Lines))
	for i, line := range r.Lines {
		if strings.HasPrefix(line.Image, "/") {
			line.Image = strings.TrimRight(r.ImageBaseURL, "/") + line.Image
		}
		lines[i] = line
	}
	r.Lines = lines

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// FormatCurrency renders an amount as US dollars, e.g. $1,234.50.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + "$" + grouped.String() + "." + frac
}
