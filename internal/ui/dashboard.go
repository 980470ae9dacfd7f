package ui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"StudioIntake/internal/export"
	"StudioIntake/internal/intake"
	"StudioIntake/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const noRecordsMessage = "Não há dados para exportar"

// Dashboard is the desk's admin view over the stored records.
type Dashboard struct {
	store  *store.Store
	window fyne.Window

	records  []intake.Record
	selected *intake.Record

	search   *widget.Entry
	list     *widget.List
	stats    *widget.Label
	detail   *fyne.Container
	pdfBtn   *widget.Button
	cpf      *widget.Label
	cpfBtn   *widget.Button
	csvBtn   *widget.Button
	shareBox fyne.CanvasObject

	content fyne.CanvasObject
}

// NewDashboard builds the dashboard. shareLink is shown so kiosks can be
// pointed at this desk by hand.
func NewDashboard(w fyne.Window, st *store.Store, shareLink string) *Dashboard {
	d := &Dashboard{store: st, window: w}

	d.search = widget.NewEntry()
	d.search.SetPlaceHolder("Buscar por nome ou telefone")
	d.search.OnChanged = func(string) { d.Reload() }

	d.stats = widget.NewLabel("")
	d.list = widget.NewList(
		func() int { return len(d.records) },
		func() fyne.CanvasObject {
			return container.NewHBox(newStatusDot(okColor), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(d.records) {
				return
			}
			rec := d.records[id]
			row := o.(*fyne.Container)
			dot := row.Objects[0].(*statusDot)
			if rec.HasRisk {
				dot.SetColor(riskColor)
			} else {
				dot.SetColor(okColor)
			}
			row.Objects[1].(*widget.Label).SetText(fmt.Sprintf("%s  ·  %s  ·  %s",
				rec.Client.Name, intake.MaskPhone(rec.Client.Phone), rec.CreatedAt.Local().Format("02/01/2006 15:04")))
		},
	)
	d.list.OnSelected = func(id widget.ListItemID) {
		if id < len(d.records) {
			rec := d.records[id]
			d.showRecord(&rec)
		}
	}

	d.detail = container.NewVBox(widget.NewLabel("Selecione uma ficha"))
	d.csvBtn = widget.NewButton("Exportar contatos (CSV)", d.exportCSV)
	d.pdfBtn = widget.NewButton("Exportar ficha (PDF)", d.exportPDF)
	d.pdfBtn.Disable()

	link := widget.NewEntry()
	link.SetText(shareLink)
	link.Disable()
	d.shareBox = widget.NewForm(widget.NewFormItem("Link do balcão", link))

	left := container.NewBorder(container.NewVBox(d.search, d.stats), nil, nil, nil, d.list)
	right := container.NewBorder(nil, container.NewHBox(d.csvBtn, d.pdfBtn), nil, nil, container.NewVScroll(d.detail))
	split := container.NewHSplit(left, right)
	split.Offset = 0.45
	d.content = container.NewBorder(d.shareBox, nil, nil, nil, split)

	d.Reload()
	return d
}

// Content returns the root object for the window.
func (d *Dashboard) Content() fyne.CanvasObject { return d.content }

// Records returns the records currently listed.
func (d *Dashboard) Records() []intake.Record { return d.records }

// StatsText returns the summary line, for tests.
func (d *Dashboard) StatsText() string { return d.stats.Text }

// Reload re-reads the store and applies the search filter. Call on the UI
// goroutine.
func (d *Dashboard) Reload() {
	d.records = d.store.Filter(d.search.Text)
	s := d.store.Stats()
	d.stats.SetText(fmt.Sprintf("Total: %d  |  Com risco: %d  |  Sem risco: %d", s.Total, s.WithRisk, s.WithoutRisk))
	d.list.UnselectAll()
	d.list.Refresh()
}

// Select shows the record at index i of the current list.
func (d *Dashboard) Select(i int) {
	d.list.Select(i)
}

func (d *Dashboard) showRecord(rec *intake.Record) {
	d.selected = rec
	d.pdfBtn.Enable()

	status := "Sem risco"
	if rec.HasRisk {
		status = "COM RISCO: revisar antes do procedimento"
	}
	info := widget.NewForm(
		widget.NewFormItem("Nome", widget.NewLabel(rec.Client.Name)),
		widget.NewFormItem("CPF", d.cpfRow(rec.Client.CPF)),
		widget.NewFormItem("Telefone", widget.NewLabel(rec.Client.Phone)),
		widget.NewFormItem("Nascimento", widget.NewLabel(orDash(formatBirth(rec.Client.BirthDate)))),
		widget.NewFormItem("Instagram", widget.NewLabel(orDash(rec.Client.Instagram))),
		widget.NewFormItem("Status", widget.NewLabel(status)),
		widget.NewFormItem("Cadastro", widget.NewLabel(rec.CreatedAt.Local().Format("02/01/2006 15:04"))),
	)

	answers := container.NewVBox()
	for _, q := range rec.Answers.Questions() {
		text := "Não respondido"
		if q.Answer.Answered() {
			text = answerNo
			if q.Answer.Yes() {
				text = answerYes
			}
		}
		if q.Answer.Details != "" {
			text += " (" + q.Answer.Details + ")"
		}
		l := widget.NewLabel(q.Prompt + " " + text)
		l.Wrapping = fyne.TextWrapWord
		answers.Add(l)
	}

	objects := []fyne.CanvasObject{info, widget.NewSeparator(), answers, widget.NewSeparator()}
	if png, err := d.store.Signature(*rec); err != nil {
		log.Printf("[DESK] Signature for %s unavailable: %v", rec.ID, err)
		objects = append(objects, widget.NewLabel("Assinatura indisponível"))
	} else {
		img := canvas.NewImageFromResource(fyne.NewStaticResource(rec.SignatureFile, png))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(320, 140))
		objects = append(objects, img)
	}
	d.detail.Objects = objects
	d.detail.Refresh()
}

// cpfRow shows the masked CPF with a button that reveals the full value.
func (d *Dashboard) cpfRow(cpf string) fyne.CanvasObject {
	masked := intake.MaskCPF(cpf)
	d.cpf = widget.NewLabel(masked)
	revealed := false
	d.cpfBtn = widget.NewButton("Revelar", nil)
	d.cpfBtn.OnTapped = func() {
		revealed = !revealed
		if revealed {
			d.cpf.SetText(orDash(cpf))
			d.cpfBtn.SetText("Ocultar")
			return
		}
		d.cpf.SetText(masked)
		d.cpfBtn.SetText("Revelar")
	}
	if strings.TrimSpace(cpf) == "" {
		d.cpfBtn.Disable()
	}
	return container.NewHBox(d.cpf, d.cpfBtn)
}

func (d *Dashboard) exportCSV() {
	if len(d.store.List()) == 0 {
		dialog.ShowInformation("Exportar contatos", noRecordsMessage, d.window)
		return
	}
	password := widget.NewPasswordEntry()
	password.Validator = export.CheckPassword
	items := []*widget.FormItem{widget.NewFormItem("Senha", password)}
	dialog.ShowForm("Proteger exportação", "Exportar", "Cancelar", items, func(ok bool) {
		if !ok {
			return
		}
		if err := export.CheckPassword(password.Text); err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		d.saveFile(export.CSVFileName(time.Now()), func(w io.Writer) error {
			return export.ExportCSV(w, d.store.List(), password.Text, time.Local)
		})
	}, d.window)
}

func (d *Dashboard) exportPDF() {
	if d.selected == nil {
		return
	}
	rec := *d.selected
	png, err := d.store.Signature(rec)
	if err != nil {
		log.Printf("[DESK] Exporting %s without signature: %v", rec.ID, err)
	}
	name := fmt.Sprintf("ficha_%s.pdf", intake.SanitizeName(rec.Client.Name))
	d.saveFile(name, func(w io.Writer) error {
		return export.WritePDF(w, rec, png, time.Local)
	})
}

func (d *Dashboard) saveFile(name string, write func(io.Writer) error) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[DESK] Error closing %s: %v", writer.URI(), err)
			}
		}()
		if err := write(writer); err != nil {
			log.Printf("[DESK] Export to %s failed: %v", writer.URI(), err)
			dialog.ShowError(err, d.window)
			return
		}
		log.Printf("[DESK] Exported %s", writer.URI())
	}, d.window)
	save.SetFileName(name)
	if home, err := storage.ListerForURI(storage.NewFileURI(d.store.Dir())); err == nil {
		save.SetLocation(home)
	}
	save.Show()
}

func formatBirth(s string) string {
	if t, err := intake.ParseBirthDate(s); err == nil {
		return t.Format("02/01/2006")
	}
	return s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
