package ui

import (
	"image/color"

	"StudioIntake/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	accentColor = color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}
	riskColor   = color.NRGBA{R: 0xe5, G: 0x48, B: 0x4d, A: 0xff}
	okColor     = color.NRGBA{R: 0x30, G: 0xa4, B: 0x6c, A: 0xff}
)

// --- Status dot ---
type statusDot struct {
	widget.BaseWidget
	Color color.Color
}

func newStatusDot(c color.Color) *statusDot {
	d := &statusDot{Color: c}
	d.ExtendBaseWidget(d)
	return d
}

func (d *statusDot) SetColor(c color.Color) {
	d.Color = c
	d.Refresh()
}

func (d *statusDot) CreateRenderer() fyne.WidgetRenderer {
	dot := canvas.NewCircle(d.Color)
	r := &statusDotRenderer{dot: dot, owner: d}
	return r
}

type statusDotRenderer struct {
	dot   *canvas.Circle
	owner *statusDot
}

func (r *statusDotRenderer) Layout(size fyne.Size)        { r.dot.Resize(size) }
func (r *statusDotRenderer) MinSize() fyne.Size           { return fyne.NewSize(12, 12) }
func (r *statusDotRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.dot} }
func (r *statusDotRenderer) Destroy()                     {}
func (r *statusDotRenderer) Refresh() {
	r.dot.FillColor = r.owner.Color
	r.dot.Refresh()
}

// --- The signature toolbar ---

// SignatureToolbar holds the undo/clear actions and the capture status for a
// pad.
type SignatureToolbar struct {
	Content fyne.CanvasObject

	status *widget.Label
	dot    *statusDot
}

// NewSignatureToolbar builds the toolbar for pad.
func NewSignatureToolbar(pad *SignaturePad) *SignatureToolbar {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), pad.Undo),
		widget.NewToolbarAction(theme.DeleteIcon(), pad.Clear),
	)
	t := &SignatureToolbar{
		status: widget.NewLabel(""),
		dot:    newStatusDot(riskColor),
	}
	t.SetState(signature.StateEmpty)
	t.Content = container.NewHBox(
		container.NewCenter(t.dot),
		t.status,
		layout.NewSpacer(),
		tb,
	)
	return t
}

// SetState shows whether a signature has been captured.
func (t *SignatureToolbar) SetState(st signature.State) {
	if st == signature.StateHasInk {
		t.status.SetText("Assinatura capturada")
		t.dot.SetColor(okColor)
		return
	}
	t.status.SetText("Assine no quadro abaixo")
	t.dot.SetColor(riskColor)
}

// Status returns the label text, for tests.
func (t *SignatureToolbar) Status() string { return t.status.Text }
