package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// invoiceLocale drives digit grouping for amounts printed on invoices
var invoiceLocale = language.MustParse("en-IN")

// MoneyFormatter prints decimal amounts in a currency's local notation
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewMoneyFormatter creates a formatter for the ISO 4217 currency code.
// Unknown codes fall back to INR.
func NewMoneyFormatter(code string) *MoneyFormatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
	}
	f := &MoneyFormatter{printer: message.NewPrinter(invoiceLocale)}
	switch unit {
	case currency.INR:
		f.symbol = "₹"
	default:
		f.symbol = unit.String() + " "
	}
	return f
}

// Format renders amount with two fraction digits, e.g. ₹1,500.50
func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	value := amount.Round(2).InexactFloat64()
	return sign + f.symbol + f.printer.Sprint(number.Decimal(value, number.Scale(2)))
}

// Percent renders a fractional rate such as 0.18 as 18%
func (f *MoneyFormatter) Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

var titleCaser = cases.Title(language.English)

// humanize turns identifiers like "tax_invoice" into "Tax Invoice"
func humanize(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

// invoiceLine is one printed row of the invoice
type invoiceLine struct {
	Description string
	Period      string
	Quantity    string
	UnitPrice   string
	Subtotal    string
}

// invoiceView is the data bound to the invoice template
type invoiceView struct {
	IssuerName      string
	IssuerAddress   string
	Title           string
	Number          string
	WorkOrderNumber string
	IssuedOn        string
	DueOn           string
	Status          string
	Lines           []invoiceLine
	TaxableAmount   string
	TaxRate         string
	TaxAmount       string
	Total           string
	ShowTax         bool
	PaidAmount      string
	Balance         string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Number}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 20px; margin: 0 0 4px 0; }
.meta td { padding: 2px 12px 2px 0; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 16px; }
table.lines th, table.lines td { border-bottom: 1px solid #ddd; padding: 6px 4px; text-align: left; }
table.lines td.num, table.lines th.num { text-align: right; }
.totals { margin-top: 12px; width: 40%; margin-left: auto; }
.totals td { padding: 3px 4px; }
.totals td.num { text-align: right; }
.grand td { font-weight: bold; border-top: 2px solid #222; }
</style>
</head>
<body>
<header>
<h1>{{.IssuerName}}</h1>
{{if .IssuerAddress}}<div>{{.IssuerAddress}}</div>{{end}}
</header>
<h2>{{.Title}}</h2>
<table class="meta">
<tr><td>Invoice No.</td><td>{{.Number}}</td></tr>
<tr><td>Work Order</td><td>{{.WorkOrderNumber}}</td></tr>
<tr><td>Issued</td><td>{{.IssuedOn}}</td></tr>
<tr><td>Due</td><td>{{.DueOn}}</td></tr>
<tr><td>Status</td><td>{{.Status}}</td></tr>
</table>
<table class="lines">
<thead><tr><th>Description</th><th>Period</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Description}}</td><td>{{.Period}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Subtotal}}</td></tr>
{{end}}</tbody>
</table>
<table class="totals">
{{if .ShowTax}}<tr><td>Taxable value</td><td class="num">{{.TaxableAmount}}</td></tr>
<tr><td>GST @ {{.TaxRate}}</td><td class="num">{{.TaxAmount}}</td></tr>
{{end}}<tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
<tr><td>Paid</td><td class="num">{{.PaidAmount}}</td></tr>
<tr><td>Balance due</td><td class="num">{{.Balance}}</td></tr>
</table>
</body>
</html>
`))

func renderInvoiceHTML(view *invoiceView) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
