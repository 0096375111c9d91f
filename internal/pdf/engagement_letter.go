package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders practice paperwork. An interface so handlers can be
// tested with a stub.
type Generator interface {
	EngagementLetter(data LetterData) (string, error)
}

type LetterData struct {
	ClientName string
	ClientID   string
	TaxYear    int
	Type       string
	FeeAmount  float64
	DueDate    *time.Time
	CreatedAt  time.Time
	Filename   string // base name only; generated when empty
}

// LetterGenerator writes PDFs under RootDir.
type LetterGenerator struct {
	RootDir  string
	Practice string
}

func NewLetterGenerator(rootDir, practiceName string) *LetterGenerator {
	return &LetterGenerator{RootDir: filepath.Clean(rootDir), Practice: practiceName}
}

func (g *LetterGenerator) EngagementLetter(data LetterData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("engagement_%s_%d.pdf", data.ClientID, data.TaxYear)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Engagement Letter %s %d", data.ClientID, data.TaxYear), false)
	pdf.SetAuthor(g.Practice, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "ENGAGEMENT LETTER", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s  |  %s", data.ClientID, data.CreatedAt.Format("January 2, 2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Parties")
	g.kvLine(pdf, "Preparer", g.Practice)
	g.kvLine(pdf, "Client", data.ClientName)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Scope of services")
	g.kvLine(pdf, "Tax year", fmt.Sprintf("%d", data.TaxYear))
	g.kvLine(pdf, "Return type", data.Type)
	g.kvLine(pdf, "Fee", fmt.Sprintf("$%.2f", data.FeeAmount))
	if data.DueDate != nil {
		g.kvLine(pdf, "Target date", data.DueDate.Format("January 2, 2006"))
	}
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 11)
	intro := "We will prepare the federal and applicable state income tax returns identified above " +
		"from information you furnish. We will not audit or otherwise verify the data you submit, " +
		"although we may ask for clarification of some of the information."
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Terms")
	pdf.SetFont("Helvetica", "", 11)
	terms := []string{
		"1. You are responsible for providing all documents needed to prepare complete and accurate returns.",
		"2. Fees are due upon delivery of the completed returns.",
		"3. This engagement covers the tax year stated above only.",
		"4. Either party may terminate this engagement with written notice before filing.",
	}
	for _, t := range terms {
		pdf.MultiCell(0, 6, t, "", "L", false)
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Signatures")
	pdf.Ln(6)

	lineY := pdf.GetY()
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(80, 6, "Preparer", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 6, "Client", "", 1, "L", false, 0, "")

	pdf.SetLineWidth(0.3)
	pdf.Line(20, lineY+10, 100, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(20)
	pdf.Cell(80, 5, "(signature, date)")
	pdf.SetY(lineY + 6)
	pdf.SetX(130)
	pdf.Line(130, lineY+10, 190, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(130)
	pdf.Cell(80, 5, "(signature, date)")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

func (g *LetterGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *LetterGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *LetterGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *LetterGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}
