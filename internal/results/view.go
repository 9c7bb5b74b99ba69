package results

import "github.com/binaryshield/godeye-console/internal/models"

// Risk and confidence tiers share the same thresholds.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"

	highThreshold   = 0.8
	mediumThreshold = 0.5
)

// Presentation hints carried in the view-model so any frontend renders the
// same motion without the view layer owning timing logic.
const (
	CountUpDurationMs        = 2000
	RowStaggerMs             = 100
	RedirectCountdownSeconds = 3
)

// RiskLevel classifies an average confidence into High/Medium/Low.
func RiskLevel(avgConfidence float64) string {
	switch {
	case avgConfidence >= highThreshold:
		return RiskHigh
	case avgConfidence >= mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ConfidenceTier is the per-indicator coloring class, lower-cased for class
// names but using the same cutoffs as RiskLevel.
func ConfidenceTier(confidence float64) string {
	switch {
	case confidence >= highThreshold:
		return "high"
	case confidence >= mediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// ViewModel is everything the results view needs, independent of the
// presentation technology.
type ViewModel struct {
	Header Header     `json:"header"`
	Stats  Stats      `json:"stats"`
	Rows   []TableRow `json:"rows"`
	Chart  *ChartData `json:"chart,omitempty"`
}

type Header struct {
	Query     string `json:"query"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Summary   string `json:"summary,omitempty"`
}

type Stats struct {
	TotalEntities     int     `json:"total_entities"`
	AvgConfidencePct  int     `json:"avg_confidence_pct"`
	SourceCount       int     `json:"source_count"`
	RiskLevel         string  `json:"risk_level"`
	AvgConfidence     float64 `json:"avg_confidence"`
	CountUpDurationMs int     `json:"count_up_duration_ms"`
}

// TableRow is one indicator rendered for display. Placeholder rows stand in
// for an empty result set so the table body is never empty.
type TableRow struct {
	Indicator      string `json:"indicator"`
	Type           string `json:"type"`
	ConfidencePct  int    `json:"confidence_pct"`
	ConfidenceTier string `json:"confidence_tier"`
	Connections    int    `json:"connections"`
	Source         string `json:"source"`
	FadeDelayMs    int    `json:"fade_delay_ms"`
	Placeholder    bool   `json:"placeholder,omitempty"`
}

// ErrorView is the full-page error state with its auto-redirect hint.
type ErrorView struct {
	Message          string `json:"message"`
	RedirectTo       string `json:"redirect_to"`
	CountdownSeconds int    `json:"countdown_seconds"`
}

// NewErrorView builds the standard error state pointing back at the search
// page.
func NewErrorView(message string) ErrorView {
	return ErrorView{
		Message:          message,
		RedirectTo:       "/",
		CountdownSeconds: RedirectCountdownSeconds,
	}
}

// rowFromIndicator applies display defaults for absent fields.
func rowFromIndicator(ind models.Indicator, index int) TableRow {
	row := TableRow{
		Indicator:      ind.Indicator,
		Type:           ind.Type,
		ConfidencePct:  int(ind.Confidence*100 + 0.5),
		ConfidenceTier: ConfidenceTier(ind.Confidence),
		Connections:    ind.Connections,
		Source:         ind.Source,
		FadeDelayMs:    index * RowStaggerMs,
	}
	if row.Indicator == "" {
		row.Indicator = "unknown"
	}
	if row.Type == "" {
		row.Type = "unknown"
	}
	if row.Source == "" {
		row.Source = "unknown"
	}
	return row
}

// placeholderRow is rendered when the backend returned zero indicators.
func placeholderRow() TableRow {
	return TableRow{
		Indicator:   "No indicators found",
		Type:        "-",
		Source:      "-",
		Placeholder: true,
	}
}
