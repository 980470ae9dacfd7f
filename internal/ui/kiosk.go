package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StudioIntake/internal/intake"
	"StudioIntake/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const submitTimeout = 15 * time.Second

const (
	answerYes = "Sim"
	answerNo  = "Não"
)

// Submitter delivers a finished form to the desk.
type Submitter interface {
	Submit(ctx context.Context, sub intake.Submission) (string, error)
}

// KioskForm is the client-facing intake form.
type KioskForm struct {
	window    fyne.Window
	submitter Submitter

	name      *widget.Entry
	birthDate *widget.Entry
	cpf       *widget.Entry
	phone     *widget.Entry
	instagram *widget.Entry

	answers  intake.HealthAnswers
	radios   []*widget.RadioGroup
	details  []*widget.Entry
	terms    *widget.Check
	pad      *SignaturePad
	padTools *SignatureToolbar
	submit   *widget.Button
	status   *widget.Label
	progress *widget.Label

	scroll   *container.Scroll
	sections []fyne.CanvasObject
	tracker  *intake.ProgressTracker

	content fyne.CanvasObject
}

// NewKioskForm builds the form. submitter may be nil until the desk is
// reached; SetSubmitter installs it later.
func NewKioskForm(w fyne.Window, cfg signature.Config, submitter Submitter) *KioskForm {
	k := &KioskForm{
		window:    w,
		submitter: submitter,
		status:    widget.NewLabel(""),
		progress:  widget.NewLabel(""),
		tracker:   intake.NewProgressTracker(),
	}
	k.build(cfg)
	return k
}

// Content returns the root object for the window.
func (k *KioskForm) Content() fyne.CanvasObject { return k.content }

// SetSubmitter installs the desk connection. Call on the UI goroutine.
func (k *KioskForm) SetSubmitter(s Submitter) {
	k.submitter = s
	k.updateSubmit()
}

// SetStatus shows a connection or submission message. Safe from any
// goroutine.
func (k *KioskForm) SetStatus(text string) {
	fyne.Do(func() { k.status.SetText(text) })
}

func (k *KioskForm) build(cfg signature.Config) {
	k.name = widget.NewEntry()
	k.name.SetPlaceHolder("Nome completo")
	k.birthDate = widget.NewEntry()
	k.birthDate.SetPlaceHolder("DD/MM/AAAA")
	k.birthDate.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := intake.ParseBirthDate(s)
		return err
	}
	k.cpf = widget.NewEntry()
	k.cpf.SetPlaceHolder("000.000.000-00")
	k.cpf.OnChanged = maskEntry(k.cpf, intake.FormatCPF)
	k.phone = widget.NewEntry()
	k.phone.SetPlaceHolder("(00) 00000-0000")
	k.phone.OnChanged = maskEntry(k.phone, intake.FormatPhone)
	k.instagram = widget.NewEntry()
	k.instagram.SetPlaceHolder("@seuperfil")

	personal := widget.NewForm(
		widget.NewFormItem("Nome *", k.name),
		widget.NewFormItem("Nascimento", k.birthDate),
		widget.NewFormItem("CPF", k.cpf),
		widget.NewFormItem("Telefone *", k.phone),
		widget.NewFormItem("Instagram", k.instagram),
	)

	health := container.NewVBox()
	for _, q := range k.answers.Questions() {
		health.Add(k.questionRow(q))
	}

	k.pad = NewSignaturePad(cfg)
	k.padTools = NewSignatureToolbar(k.pad)
	k.pad.OnChange = func(a *signature.Artifact) {
		if a == nil {
			k.padTools.SetState(signature.StateEmpty)
		} else {
			k.padTools.SetState(signature.StateHasInk)
		}
		k.updateSubmit()
	}

	clauses := make([]string, len(intake.ConsentClauses))
	for i, c := range intake.ConsentClauses {
		clauses[i] = fmt.Sprintf("%d. %s", i+1, c)
	}
	termsText := widget.NewLabel(strings.Join(clauses, "\n"))
	termsText.Wrapping = fyne.TextWrapWord
	k.terms = widget.NewCheck("Li e aceito os termos acima", func(bool) { k.updateSubmit() })

	k.submit = widget.NewButton("Enviar ficha", k.onSubmit)
	k.submit.Importance = widget.HighImportance
	k.submit.Disable()

	k.sections = []fyne.CanvasObject{
		widget.NewCard(intake.Steps[0], "", personal),
		widget.NewCard(intake.Steps[1], "", health),
		widget.NewCard(intake.Steps[2], intake.ConsentTitle, container.NewVBox(
			termsText,
			k.terms,
			k.padTools.Content,
			container.NewGridWrap(fyne.NewSize(480, 200), k.pad),
		)),
	}
	body := container.NewVBox(k.sections...)
	body.Add(container.NewVBox(k.submit, k.status))

	k.scroll = container.NewVScroll(body)
	k.scroll.OnScrolled = func(p fyne.Position) { k.updateProgress(p.Y) }

	stepper := container.NewHBox()
	for i, name := range intake.Steps {
		step := i
		stepper.Add(widget.NewButton(fmt.Sprintf("%d. %s", i+1, name), func() { k.ScrollToStep(step) }))
	}
	k.updateProgress(0)
	k.content = container.NewBorder(container.NewVBox(stepper, k.progress), nil, nil, nil, k.scroll)
}

func (k *KioskForm) questionRow(q intake.Question) fyne.CanvasObject {
	details := widget.NewEntry()
	details.SetPlaceHolder("Detalhes")
	details.Hide()
	details.OnChanged = func(s string) { q.Answer.Details = s }

	radio := widget.NewRadioGroup([]string{answerYes, answerNo}, func(choice string) {
		switch choice {
		case answerYes:
			q.Answer.Set(true)
			details.Show()
		case answerNo:
			q.Answer.Set(false)
			details.Hide()
		default:
			q.Answer.Value = nil
			details.Hide()
		}
	})
	radio.Horizontal = true
	k.radios = append(k.radios, radio)
	k.details = append(k.details, details)

	prompt := widget.NewLabel(q.Prompt)
	prompt.Wrapping = fyne.TextWrapWord
	return container.NewVBox(prompt, radio, details)
}

// maskEntry reformats e's text with format as the user types.
func maskEntry(e *widget.Entry, format func(string) string) func(string) {
	return func(s string) {
		if f := format(s); f != s {
			e.SetText(f)
			e.CursorColumn = len([]rune(f))
		}
	}
}

func (k *KioskForm) updateProgress(scrollY float32) {
	tops := make([]float32, len(k.sections))
	for i, s := range k.sections {
		tops[i] = s.Position().Y
	}
	k.tracker.SectionTops = tops
	step := k.tracker.Step(scrollY)
	k.progress.SetText(fmt.Sprintf("Etapa %d de %d: %s", step+1, len(intake.Steps), intake.Steps[step]))
}

// ScrollToStep brings a form section under the header.
func (k *KioskForm) ScrollToStep(step int) {
	k.updateProgress(k.scroll.Offset.Y)
	y, ok := k.tracker.ScrollTarget(step)
	if !ok {
		return
	}
	k.scroll.Offset = fyne.NewPos(0, y)
	k.scroll.Refresh()
	k.updateProgress(y)
}

// Ready reports whether the form can be sent.
func (k *KioskForm) Ready() bool {
	return k.submitter != nil && k.terms.Checked && k.pad.Artifact() != nil
}

func (k *KioskForm) updateSubmit() {
	if k.Ready() {
		k.submit.Enable()
	} else {
		k.submit.Disable()
	}
}

// Submission collects the current form values.
func (k *KioskForm) Submission() intake.Submission {
	sub := intake.Submission{
		Client: intake.Client{
			Name:      k.name.Text,
			CPF:       k.cpf.Text,
			Phone:     k.phone.Text,
			Instagram: k.instagram.Text,
		},
		Answers:       k.answers,
		TermsAccepted: k.terms.Checked,
	}
	if d, err := intake.ParseBirthDate(k.birthDate.Text); err == nil {
		sub.Client.BirthDate = d.Format(time.DateOnly)
	}
	if a := k.pad.Artifact(); a != nil {
		sub.Signature = a.PNG
	}
	sub.Normalize()
	return sub
}

func (k *KioskForm) onSubmit() {
	// Pick up a regeneration still waiting on its timer.
	k.pad.Pad().Flush()
	sub := k.Submission()
	if err := sub.Validate(); err != nil {
		dialog.ShowError(err, k.window)
		return
	}
	if k.submitter == nil {
		dialog.ShowError(errors.New("sem conexão com o balcão"), k.window)
		return
	}

	k.submit.Disable()
	k.status.SetText("Enviando...")
	submitter := k.submitter
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		id, err := submitter.Submit(ctx, sub)
		fyne.Do(func() {
			if err != nil {
				log.Printf("[KIOSK] Submit failed: %v", err)
				k.status.SetText("")
				dialog.ShowError(fmt.Errorf("não foi possível enviar a ficha: %w", err), k.window)
				k.updateSubmit()
				return
			}
			log.Printf("[KIOSK] Stored as record %s", id)
			k.Reset()
			k.status.SetText("Ficha enviada! Obrigado.")
		})
	}()
}

// Reset clears the form for the next client.
func (k *KioskForm) Reset() {
	for _, e := range []*widget.Entry{k.name, k.birthDate, k.cpf, k.phone, k.instagram} {
		e.SetText("")
	}
	k.answers = intake.HealthAnswers{}
	for i, r := range k.radios {
		r.SetSelected("")
		k.details[i].SetText("")
	}
	k.terms.SetChecked(false)
	k.pad.Clear()
	k.updateSubmit()
	k.ScrollToStep(0)
}
