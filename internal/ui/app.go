package ui

import (
	"StudioIntake/internal/signature"
	"StudioIntake/internal/store"

	"fyne.io/fyne/v2"
)

// NewDeskWindow opens the admin dashboard.
func NewDeskWindow(a fyne.App, st *store.Store, shareLink string) (fyne.Window, *Dashboard) {
	w := a.NewWindow("StudioIntake - Balcão")
	w.Resize(fyne.NewSize(1024, 768))

	dash := NewDashboard(w, st, shareLink)
	w.SetContent(dash.Content())
	return w, dash
}

// NewKioskWindow opens the intake form. The form starts without a desk
// connection; install one with SetSubmitter.
func NewKioskWindow(a fyne.App, cfg signature.Config) (fyne.Window, *KioskForm) {
	w := a.NewWindow("StudioIntake - Ficha de Anamnese")
	w.Resize(fyne.NewSize(800, 1024))

	form := NewKioskForm(w, cfg, nil)
	w.SetContent(form.Content())
	w.SetOnClosed(form.pad.Close)
	return w, form
}
