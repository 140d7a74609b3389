package classifier

// Confidence tier thresholds. A prediction at or above the high threshold may
// be auto-applied; between the two it is surfaced as a suggestion requiring
// confirmation; below the medium threshold it is never applied and the result
// falls back to LabelUncategorized.
const (
	DefaultHighThreshold   = 0.5
	DefaultMediumThreshold = 0.3
)

// LabelUncategorized is the label returned when no category qualifies.
const LabelUncategorized = "uncategorized"

// MaxAlternatives bounds the number of runner-up classes reported alongside
// the winning prediction.
const MaxAlternatives = 3

// Tier grades how reliable a prediction is.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// TierFor maps a confidence score onto a tier given the two thresholds.
// Requires 0 <= medium < high <= 1.
func TierFor(confidence, medium, high float64) Tier {
	switch {
	case confidence >= high:
		return TierHigh
	case confidence >= medium:
		return TierMedium
	default:
		return TierLow
	}
}

// TrainingItem is one labeled text sample. Items exist only for the duration
// of a training run.
type TrainingItem struct {
	Text       string
	CategoryID int64
}

// Alternative is a runner-up class with its posterior confidence.
type Alternative struct {
	CategoryID int64
	Label      string
	Confidence float64
}

// ClassificationResult is the outcome of classifying one document.
// CategoryID is nil exactly when Label is LabelUncategorized.
type ClassificationResult struct {
	CategoryID   *int64        `json:"category_id"`
	Label        string        `json:"label"`
	Confidence   float64       `json:"confidence"`
	Tier         Tier          `json:"tier"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Uncategorized returns the degraded result used for empty input, fully
// out-of-vocabulary input, or a missing model.
func Uncategorized() ClassificationResult {
	return ClassificationResult{
		Label:      LabelUncategorized,
		Confidence: 0,
		Tier:       TierLow,
	}
}

// TrainingReport summarizes a training run. Every field is always populated;
// a failed run reports Success=false with a descriptive Message.
type TrainingReport struct {
	Success     bool    `json:"success"`
	Accuracy    float64 `json:"accuracy"`
	Message     string  `json:"message"`
	SampleCount int     `json:"sample_count"`
}

// KeywordResult is one extracted keyword with its non-negative weight.
type KeywordResult struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TagSuggestion is a scored, ranked candidate tag. Known marks suggestions
// that reinforce the existing tag vocabulary rather than proposing a new tag.
type TagSuggestion struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
	Known bool    `json:"known"`
}
