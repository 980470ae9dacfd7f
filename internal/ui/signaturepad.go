package ui

import (
	"image"
	"image/color"
	"log"
	"sync"

	"StudioIntake/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var padBackground = color.NRGBA{R: 0x1c, G: 0x1c, B: 0x1e, A: 0xff}

// SignaturePad is a fyne widget that captures a freehand signature. The
// strokes live in a signature.Pad; the widget only forwards pointer events
// and paints the pad's surface.
type SignaturePad struct {
	widget.BaseWidget

	pad *signature.Pad

	mu       sync.Mutex
	ratio    float64
	artifact *signature.Artifact

	// left is set when the pointer leaves mid-gesture; drags are ignored
	// until the next press or drag end.
	left bool

	// OnChange is called on the UI goroutine with each new artifact, or nil
	// once the pad is empty.
	OnChange func(*signature.Artifact)
}

var _ fyne.Widget = (*SignaturePad)(nil)
var _ fyne.Draggable = (*SignaturePad)(nil)
var _ desktop.Mouseable = (*SignaturePad)(nil)
var _ desktop.Hoverable = (*SignaturePad)(nil)

// NewSignaturePad creates an empty pad.
func NewSignaturePad(cfg signature.Config) *SignaturePad {
	s := &SignaturePad{ratio: 1}
	s.pad = signature.NewPad(cfg, s.published)
	s.ExtendBaseWidget(s)
	return s
}

// Pad exposes the underlying stroke model.
func (s *SignaturePad) Pad() *signature.Pad { return s.pad }

// Artifact returns the latest published artifact, or nil.
func (s *SignaturePad) Artifact() *signature.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// published runs on the pad's publishing goroutine.
func (s *SignaturePad) published(a *signature.Artifact) {
	s.mu.Lock()
	s.artifact = a
	s.mu.Unlock()
	fyne.Do(func() {
		if s.OnChange != nil {
			s.OnChange(a)
		}
	})
}

// Undo removes the last stroke.
func (s *SignaturePad) Undo() {
	s.pad.Undo()
	s.Refresh()
}

// Clear removes every stroke.
func (s *SignaturePad) Clear() {
	s.pad.Clear()
	s.Refresh()
}

// Close stops pending artifact work.
func (s *SignaturePad) Close() { s.pad.Close() }

func (s *SignaturePad) send(phase signature.Phase, pos fyne.Position) {
	s.pad.HandlePointer(signature.Event{Phase: phase, X: float64(pos.X), Y: float64(pos.Y)})
}

func (s *SignaturePad) begin(pos fyne.Position) {
	s.send(signature.PhaseDown, pos)
	s.send(signature.PhaseMove, pos)
	s.Refresh()
}

func (s *SignaturePad) end() {
	if !s.pad.Drawing() {
		return
	}
	s.send(signature.PhaseUp, fyne.Position{})
	s.Refresh()
}

func (s *SignaturePad) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.left = false
		s.begin(e.Position)
	}
}

func (s *SignaturePad) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.end()
	}
}

func (s *SignaturePad) Dragged(e *fyne.DragEvent) {
	if s.left {
		return
	}
	if !s.pad.Drawing() {
		// Touch devices start with a drag instead of a mouse press.
		start := e.Position.Subtract(e.Dragged)
		if !s.contains(start) {
			return
		}
		s.begin(start)
	}
	s.send(signature.PhaseMove, e.Position)
	s.Refresh()
}

func (s *SignaturePad) DragEnd() {
	s.left = false
	s.end()
}

func (s *SignaturePad) contains(p fyne.Position) bool {
	size := s.Size()
	return p.X >= 0 && p.Y >= 0 && p.X <= size.Width && p.Y <= size.Height
}

func (s *SignaturePad) MouseIn(*desktop.MouseEvent) {}

func (s *SignaturePad) MouseMoved(e *desktop.MouseEvent) {
	if s.pad.Drawing() {
		s.send(signature.PhaseMove, e.Position)
		s.Refresh()
	}
}

// MouseOut ends the stroke when the pointer leaves the pad.
func (s *SignaturePad) MouseOut() {
	if s.pad.Drawing() {
		s.left = true
		s.send(signature.PhaseLeave, fyne.Position{})
		s.Refresh()
	}
}

func (s *SignaturePad) CreateRenderer() fyne.WidgetRenderer {
	r := &signaturePadRenderer{pad: s}
	r.background = canvas.NewRectangle(padBackground)
	r.background.CornerRadius = 8
	r.ink = canvas.NewRaster(r.generate)
	r.ink.ScaleMode = canvas.ImageScalePixels
	return r
}

type signaturePadRenderer struct {
	pad        *SignaturePad
	background *canvas.Rectangle
	ink        *canvas.Raster
}

// generate is called with the raster's size in device pixels; the ratio to
// the logical size is the pad's pixel ratio.
func (r *signaturePadRenderer) generate(w, h int) image.Image {
	size := r.pad.Size()
	if size.Width <= 0 || size.Height <= 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	ratio := float64(w) / float64(size.Width)
	r.pad.mu.Lock()
	r.pad.ratio = ratio
	r.pad.mu.Unlock()
	r.pad.pad.Resize(float64(size.Width), float64(size.Height), ratio)

	img := r.pad.pad.Snapshot()
	if img == nil {
		log.Printf("[PAD] Surface has no area at %dx%d", w, h)
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

func (r *signaturePadRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.ink.Resize(size)
	r.pad.mu.Lock()
	ratio := r.pad.ratio
	r.pad.mu.Unlock()
	r.pad.pad.Resize(float64(size.Width), float64(size.Height), ratio)
}

func (r *signaturePadRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 160)
}

func (r *signaturePadRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.ink}
}

func (r *signaturePadRenderer) Refresh() {
	r.ink.Refresh()
}

func (r *signaturePadRenderer) Destroy() {}
