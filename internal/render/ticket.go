// Package render produces printable documents for rentals.
package render

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"motorent-backend/internal/domain"
)

// PDFTicketRenderer renders pickup tickets as single-page A4 PDFs.
type PDFTicketRenderer struct {
	shopName string
}

func NewPDFTicketRenderer(shopName string) *PDFTicketRenderer {
	if shopName == "" {
		shopName = "MotoRent"
	}
	return &PDFTicketRenderer{shopName: shopName}
}

// RenderTicket builds the PDF document for a pickup ticket.
func (r *PDFTicketRenderer) RenderTicket(t *domain.Ticket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Pickup Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.shopName+" - PICKUP TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket Code : %s", t.Code),
		fmt.Sprintf("Rental No   : #%d", t.RentalID),
		fmt.Sprintf("Customer    : %s", safe(t.CustomerName)),
		fmt.Sprintf("Vehicle     : %s", safe(t.VehicleLabel)),
		fmt.Sprintf("Pickup      : %s", t.Start.String()),
		fmt.Sprintf("Return      : %s", t.End.String()),
		fmt.Sprintf("Issued      : %s", safe(t.IssuedOn)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This ticket is valid for a single pickup. Present it together with a photo ID matching the customer name above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
