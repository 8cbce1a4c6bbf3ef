package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"salesnotes-backend/models"
)

// Renderer produces the archived document for a resolved, priced note.
type Renderer interface {
	Render(doc NoteDocument) ([]byte, error)
}

// NoteDocument carries everything the renderer needs, already resolved
// against the catalog and priced.
type NoteDocument struct {
	Customer models.Customer
	Folio    string
	Lines    []DocumentLine
	Total    float64
}

type DocumentLine struct {
	Quantity  int
	Product   models.Product
	UnitPrice float64
	Amount    float64
}

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// Render lays out the fixed single-column document: title, folio/date
// block, customer block, items table, rule, total, footer caption.
// Lines appear in the order they were requested.
func (s *PDFService) Render(doc NoteDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "SALES NOTE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "Folio: "+doc.Folio, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+time.Now().Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Customer Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Legal Name: "+doc.Customer.LegalName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Trade Name: "+doc.Customer.TradeName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Tax ID: "+doc.Customer.TaxID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Email: "+doc.Customer.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Phone: "+doc.Customer.Phone, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Note Contents", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, "Quantity", "B", 0, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, line.Product.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("$%.2f", line.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("$%.2f", line.Amount), "", 1, "R", false, 0, "")
	}

	pdf.CellFormat(175, 0, "", "T", 1, "", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: $%.2f", doc.Total), "", 1, "R", false, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Thank you for your business", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
