package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"StudioIntake/internal/intake"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin   = 15.0
	lineHeight   = 6.0
	signatureW   = 80.0
	signatureKey = "signature"
)

// WritePDF renders one record as an A4 consent sheet with the signature
// image embedded. signature may be nil for records whose image is missing.
func WritePDF(w io.Writer, rec intake.Record, signature []byte, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetMargins(pageMargin, pageMargin, pageMargin)
	p.SetAutoPageBreak(true, pageMargin)
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.AddPage()

	p.SetFont("Helvetica", "B", 14)
	p.MultiCell(0, 7, tr("Ficha de Anamnese"), "", "L", false)
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, lineHeight, tr("Registro "+rec.ID+" - "+rec.CreatedAt.In(loc).Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	p.Ln(2)

	section := func(title string) {
		p.Ln(2)
		p.SetFont("Helvetica", "B", 11)
		p.CellFormat(0, lineHeight+1, tr(title), "B", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
	}
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(45, lineHeight, tr(label), "", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
		p.MultiCell(0, lineHeight, tr(value), "", "L", false)
	}

	section(intake.Steps[0])
	field("Nome", rec.Client.Name)
	field("Data de Nascimento", rec.Client.BirthDate)
	field("CPF", intake.MaskCPF(rec.Client.CPF))
	field("Telefone", rec.Client.Phone)
	field("Instagram", rec.Client.Instagram)

	section(intake.Steps[1])
	answers := rec.Answers
	for _, q := range answers.Questions() {
		v := "Não respondido"
		if q.Answer.Answered() {
			v = "Não"
			if q.Answer.Yes() {
				v = "Sim"
			}
		}
		if q.Answer.Details != "" {
			v += " - " + q.Answer.Details
		}
		p.SetFont("Helvetica", "", 10)
		p.MultiCell(0, lineHeight, tr(q.Prompt), "", "L", false)
		p.SetFont("Helvetica", "I", 10)
		p.MultiCell(0, lineHeight, tr("   "+v), "", "L", false)
	}
	p.Ln(1)
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(0, lineHeight, tr("Status: "+riskLabel(rec.HasRisk)), "", 1, "L", false, 0, "")

	section(intake.Steps[2])
	p.SetFont("Helvetica", "B", 9)
	p.MultiCell(0, 5, tr(intake.ConsentTitle), "", "L", false)
	p.SetFont("Helvetica", "", 9)
	for i, c := range intake.ConsentClauses {
		p.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, c)), "", "L", false)
	}
	accepted := "Termo não aceito"
	if rec.TermsAccepted {
		accepted = "Termo aceito pelo cliente"
	}
	p.Ln(2)
	p.CellFormat(0, lineHeight, tr(accepted), "", 1, "L", false, 0, "")

	if len(signature) > 0 {
		info := p.RegisterImageOptionsReader(signatureKey, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(signature))
		if info != nil && p.Ok() {
			h := signatureW * info.Height() / info.Width()
			x := p.GetX()
			p.ImageOptions(signatureKey, x, p.GetY(), signatureW, h, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			p.Line(x, p.GetY(), x+signatureW, p.GetY())
		} else {
			// An unreadable image should not cost the admin the rest of the sheet.
			p.ClearError()
			p.CellFormat(0, lineHeight, tr("Assinatura indisponível"), "", 1, "L", false, 0, "")
		}
	}
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, lineHeight, tr(strings.ToUpper(rec.Client.Name)), "", 1, "L", false, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: write PDF: %w", err)
	}
	return nil
}
