package signature

import (
	"image"
	"image/color"
	"sync"
	"time"
)

// State is the pad's ink state.
type State int

const (
	StateEmpty State = iota
	StateHasInk
)

func (s State) String() string {
	if s == StateHasInk {
		return "has-ink"
	}
	return "empty"
}

// Config holds the pad's rendering and export settings.
type Config struct {
	Style Style
	// Ink is the on-screen stroke color.
	Ink color.Color
	// ExportColor is the color persisted in the artifact regardless of Ink.
	ExportColor color.Color
	// ArtifactDelay defers artifact regeneration after a change so the redraw
	// settles first. Zero regenerates before the triggering call returns.
	ArtifactDelay time.Duration
}

// DefaultConfig draws in gold on screen and exports black.
func DefaultConfig() Config {
	return Config{
		Style:         DefaultStyle(),
		Ink:           color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff},
		ExportColor:   color.Black,
		ArtifactDelay: 50 * time.Millisecond,
	}
}

// Pad is a signature capture surface. It owns the stroke list, keeps the
// display surface equal to a render of the list plus the in-progress stroke,
// and publishes an Artifact through OnChange whenever the list changes.
//
// Pad is safe for concurrent use. OnChange runs outside the pad's state lock
// but deliveries are serialized; it must not call back into the pad
// synchronously.
type Pad struct {
	cfg      Config
	onChange func(*Artifact)

	mu       sync.Mutex
	sampler  Sampler
	strokes  []Stroke
	outlines [][]Point
	surface  *Surface
	artifact *Artifact

	pending *time.Timer
	seq     uint64

	publishMu sync.Mutex
	published *Artifact
}

// NewPad returns an empty pad. onChange may be nil.
func NewPad(cfg Config, onChange func(*Artifact)) *Pad {
	if cfg.Ink == nil {
		cfg.Ink = DefaultConfig().Ink
	}
	if cfg.ExportColor == nil {
		cfg.ExportColor = color.Black
	}
	p := &Pad{
		cfg:      cfg,
		onChange: onChange,
		surface:  NewSurface(cfg.Ink),
	}
	p.sampler.OnCommit = p.commitLocked
	return p
}

// Config returns the pad's configuration.
func (p *Pad) Config() Config { return p.cfg }

// HandlePointer feeds one pointer event through the sampler and redraws.
func (p *Pad) HandlePointer(ev Event) {
	p.mu.Lock()
	before := len(p.strokes)
	p.sampler.Handle(ev)
	committed := len(p.strokes) != before
	if committed || (ev.Phase == PhaseMove && p.sampler.Drawing()) {
		p.renderLocked()
	}
	p.mu.Unlock()

	if committed {
		p.schedule()
	}
}

// commitLocked appends st to the stroke list. Called by the sampler with
// p.mu held.
func (p *Pad) commitLocked(st Stroke) {
	p.strokes = append(p.strokes, st)
	p.outlines = append(p.outlines, committedOutline(st, p.cfg.Style))
	Logger().Debug("stroke committed", "samples", len(st), "strokes", len(p.strokes))
}

// Resize sets the container size and device pixel ratio and re-renders from
// the stroke list. Repeating the current geometry is a no-op.
func (p *Pad) Resize(width, height, ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface.Resize(width, height, ratio) {
		p.renderLocked()
	}
}

// Undo drops the most recent stroke. It is a no-op on an empty pad.
func (p *Pad) Undo() {
	p.mu.Lock()
	n := len(p.strokes)
	if n == 0 {
		p.mu.Unlock()
		return
	}
	p.strokes[n-1] = nil
	p.strokes = p.strokes[:n-1]
	p.outlines[n-1] = nil
	p.outlines = p.outlines[:n-1]
	p.renderLocked()
	empty := len(p.strokes) == 0
	if empty {
		p.artifact = nil
	}
	p.mu.Unlock()

	if empty {
		p.publish()
		return
	}
	p.schedule()
}

// Clear drops every stroke, including one in progress.
func (p *Pad) Clear() {
	p.mu.Lock()
	p.sampler.Cancel()
	p.strokes = nil
	p.outlines = nil
	p.artifact = nil
	p.renderLocked()
	p.mu.Unlock()

	p.publish()
}

// Load replaces the stroke list, e.g. with strokes saved earlier. Empty
// strokes are skipped.
func (p *Pad) Load(strokes []Stroke) {
	p.mu.Lock()
	p.sampler.Cancel()
	p.strokes = nil
	p.outlines = nil
	for _, st := range strokes {
		if len(st) == 0 {
			continue
		}
		p.commitLocked(append(Stroke(nil), st...))
	}
	p.renderLocked()
	empty := len(p.strokes) == 0
	if empty {
		p.artifact = nil
	}
	p.mu.Unlock()

	if empty {
		p.publish()
		return
	}
	p.schedule()
}

// Strokes returns a copy of the committed stroke list.
func (p *Pad) Strokes() []Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stroke, len(p.strokes))
	for i, st := range p.strokes {
		out[i] = append(Stroke(nil), st...)
	}
	return out
}

// Len returns the number of committed strokes.
func (p *Pad) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strokes)
}

// State reports whether the pad holds ink.
func (p *Pad) State() State {
	if p.Len() == 0 {
		return StateEmpty
	}
	return StateHasInk
}

// Drawing reports whether a gesture is in progress.
func (p *Pad) Drawing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sampler.Drawing()
}

// Artifact returns the most recently generated artifact, or nil.
func (p *Pad) Artifact() *Artifact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.artifact
}

// Snapshot returns a copy of the display surface, or nil while it has no
// area.
func (p *Pad) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface.Clone()
}

// Size returns the container size and pixel ratio last passed to Resize.
func (p *Pad) Size() (width, height, ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface.Size()
}

// Flush runs a pending artifact regeneration now.
func (p *Pad) Flush() {
	p.mu.Lock()
	t := p.pending
	p.pending = nil
	p.seq++
	p.mu.Unlock()
	if t == nil {
		return
	}
	t.Stop()
	p.regenerate()
}

// Close cancels a pending regeneration.
func (p *Pad) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
}

// renderLocked redraws the display surface from the cached outlines and the
// in-progress stroke.
func (p *Pad) renderLocked() {
	if p.surface.Image() == nil {
		return
	}
	outlines := p.outlines
	if cur := p.sampler.Current(); len(cur) > 0 {
		outlines = append(outlines[:len(outlines):len(outlines)], Outline(cur, p.cfg.Style, false))
	}
	p.surface.Render(outlines)
}

// schedule arms a regeneration unless one is already pending; the pending
// one reads the stroke list when it fires.
func (p *Pad) schedule() {
	if p.cfg.ArtifactDelay <= 0 {
		p.regenerate()
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return
	}
	p.seq++
	seq := p.seq
	p.pending = time.AfterFunc(p.cfg.ArtifactDelay, func() {
		p.mu.Lock()
		if p.seq != seq {
			// Flushed or superseded.
			p.mu.Unlock()
			return
		}
		p.pending = nil
		p.mu.Unlock()
		p.regenerate()
	})
}

// regenerate renders the committed strokes onto a scratch surface with the
// same geometry as the display and exports it.
func (p *Pad) regenerate() {
	p.mu.Lock()
	if len(p.strokes) == 0 {
		p.artifact = nil
		p.mu.Unlock()
		p.publish()
		return
	}
	w, h, ratio := p.surface.Size()
	scratch := NewSurface(p.cfg.Ink)
	scratch.Resize(w, h, ratio)
	scratch.Render(p.outlines)
	a, err := Export(scratch.Image(), p.cfg.ExportColor)
	if err != nil {
		p.mu.Unlock()
		Logger().Warn("artifact regeneration failed", "err", err)
		return
	}
	p.artifact = a
	p.mu.Unlock()
	p.publish()
}

// publish delivers the current artifact if it differs from the last one
// delivered.
func (p *Pad) publish() {
	p.publishMu.Lock()
	defer p.publishMu.Unlock()

	p.mu.Lock()
	a := p.artifact
	p.mu.Unlock()
	if a == p.published {
		return
	}
	p.published = a
	if p.onChange != nil {
		p.onChange(a)
	}
}
