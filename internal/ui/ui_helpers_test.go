package ui

import (
	"testing"

	"StudioIntake/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
)

func testConfig() signature.Config {
	cfg := signature.DefaultConfig()
	cfg.ArtifactDelay = 0
	return cfg
}

func newTestPad(t *testing.T) *SignaturePad {
	t.Helper()
	test.NewTempApp(t)
	pad := NewSignaturePad(testConfig())
	w := test.NewWindow(pad)
	t.Cleanup(w.Close)
	w.SetPadded(false)
	w.Resize(fyne.NewSize(320, 200))
	pad.Resize(fyne.NewSize(320, 200))
	return pad
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.NewDelta(dx, dy),
	}
}

// scribble draws one mouse stroke from (x, y) to the right.
func scribble(p *SignaturePad, x, y float32) {
	p.MouseDown(press(x, y))
	for i := 1; i <= 10; i++ {
		p.Dragged(drag(x+float32(i)*12, y+float32(i%3)*4, 12, 4))
	}
	p.MouseUp(press(x+120, y))
	p.DragEnd()
}
