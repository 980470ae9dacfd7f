package signature

import "math"

// DefaultPressure is used when the input device does not report pressure.
const DefaultPressure = 0.5

// Sample is one pointer reading relative to the capture surface's top-left.
type Sample struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Stroke is one pen-down-to-pen-up gesture in temporal order.
type Stroke []Sample

// Phase identifies where a pointer event sits within a contact gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseLeave
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is a pointer event in host coordinates. A zero Pressure means the
// device did not report one.
type Event struct {
	Phase    Phase
	X, Y     float64
	Pressure float64
}

// normalizePressure clamps p to [0,1], substituting DefaultPressure for
// readings that are missing or unusable.
func normalizePressure(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return DefaultPressure
	}
	if p > 1 {
		return 1
	}
	return p
}

// Sampler turns a pointer event stream into committed strokes. It keeps at
// most one in-progress stroke.
type Sampler struct {
	// Origin is the capture surface's top-left corner in host coordinates.
	OriginX, OriginY float64

	// OnCommit receives each non-empty stroke when its gesture ends.
	OnCommit func(Stroke)

	current Stroke
	drawing bool
}

// Drawing reports whether a gesture is active.
func (s *Sampler) Drawing() bool { return s.drawing }

// Current returns the in-progress stroke, or nil.
func (s *Sampler) Current() Stroke {
	if !s.drawing {
		return nil
	}
	return s.current
}

// Begin starts a new empty stroke.
func (s *Sampler) Begin() {
	s.current = Stroke{}
	s.drawing = true
}

// Move appends a sample while a gesture is active. It reports whether the
// sample was recorded.
func (s *Sampler) Move(x, y, pressure float64) bool {
	if !s.drawing {
		return false
	}
	s.current = append(s.current, Sample{
		X:        x - s.OriginX,
		Y:        y - s.OriginY,
		Pressure: normalizePressure(pressure),
	})
	return true
}

// End finishes the active gesture, committing the stroke if it has samples.
// It returns the committed stroke or nil.
func (s *Sampler) End() Stroke {
	if !s.drawing {
		return nil
	}
	s.drawing = false
	st := s.current
	s.current = nil
	if len(st) == 0 {
		return nil
	}
	if s.OnCommit != nil {
		s.OnCommit(st)
	}
	return st
}

// Cancel abandons the active gesture without committing it.
func (s *Sampler) Cancel() {
	s.current = nil
	s.drawing = false
}

// Handle dispatches ev by phase. Leaving the capture area ends the gesture.
func (s *Sampler) Handle(ev Event) {
	switch ev.Phase {
	case PhaseDown:
		s.Begin()
	case PhaseMove:
		s.Move(ev.X, ev.Y, ev.Pressure)
	case PhaseUp, PhaseLeave:
		s.End()
	}
}
