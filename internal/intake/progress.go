package intake

// Steps names the form sections in order.
var Steps = []string{"Dados Pessoais", "Histórico de Saúde", "Termo & Assinatura"}

const (
	// topThreshold keeps the first step active near the top of the page.
	topThreshold = 100
	// headerOffset leaves room for the sticky stepper when scrolling to a step.
	headerOffset = 120
)

// ProgressTracker maps a scroll position to the form step being read.
type ProgressTracker struct {
	// SectionTops holds each section's offset from the top of the form.
	SectionTops []float32
	// Offset is how far below the viewport top a section counts as reached.
	Offset float32
}

// NewProgressTracker returns a tracker with the default offset.
func NewProgressTracker(tops ...float32) *ProgressTracker {
	return &ProgressTracker{SectionTops: tops, Offset: 250}
}

// Step returns the index of the last section whose top has been scrolled
// past.
func (p *ProgressTracker) Step(scrollY float32) int {
	if scrollY < topThreshold {
		return 0
	}
	pos := scrollY + p.Offset
	for i := len(p.SectionTops) - 1; i >= 0; i-- {
		if pos >= p.SectionTops[i] {
			return i
		}
	}
	return 0
}

// ScrollTarget returns where to scroll so step sits just below the header.
// ok is false for an unknown step.
func (p *ProgressTracker) ScrollTarget(step int) (y float32, ok bool) {
	if step < 0 || step >= len(p.SectionTops) {
		return 0, false
	}
	y = p.SectionTops[step] - headerOffset
	if y < 0 {
		y = 0
	}
	return y, true
}
