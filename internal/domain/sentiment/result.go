package sentiment

// Label is the three-way bucket for a polarity score.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Result is the transient outcome of one analysis. It is never persisted.
type Result struct {
	Label    Label
	Polarity float64
}

// LabelFor buckets a polarity: above zero is positive, below zero negative, zero neutral.
func LabelFor(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}

// NewResult builds a Result from a polarity score. Negative zero is stored as 0.
func NewResult(polarity float64) Result {
	if polarity == 0 {
		polarity = 0
	}
	return Result{Label: LabelFor(polarity), Polarity: polarity}
}
