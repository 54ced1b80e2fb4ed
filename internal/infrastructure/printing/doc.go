// Package printing renders invoices to PDF.
//
// Invoice HTML comes from an html/template with amounts formatted through
// golang.org/x/text, is printed to A4 PDF by headless Chrome over the
// DevTools protocol, and is then written to object storage.
package printing
