package models

// Query types accepted by the search endpoint. "auto" defers classification
// to the validator's detection pass.
const (
	QueryTypeAuto    = "auto"
	QueryTypeDomain  = "domain"
	QueryTypeIP      = "ip"
	QueryTypeEmail   = "email"
	QueryTypeURL     = "url"
	QueryTypeUnknown = "unknown"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
	Type  string `json:"type"`
}

// AnalysisResult is the payload returned by the GodEye analysis API and
// persisted between the search and results views. A result is renderable only
// when Status is "success" and both Analytics and Results are present.
type AnalysisResult struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	QueryInfo *QueryInfo  `json:"query_info,omitempty"`
	Analytics *Analytics  `json:"analytics,omitempty"`
	Results   []Indicator `json:"results,omitempty"`
}

type QueryInfo struct {
	Query string `json:"query"`
	Type  string `json:"type"`
}

type Analytics struct {
	TotalEntities int     `json:"total_entities"`
	AvgConfidence float64 `json:"avg_confidence"`
	SourceCount   int     `json:"source_count"`
}

// Indicator is a single OSINT finding. Indicators keep the order the backend
// returned them in; no re-sorting happens on this side.
type Indicator struct {
	Indicator   string  `json:"indicator"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Connections int     `json:"connections"`
	Source      string  `json:"source"`
}

// Renderable reports whether the result satisfies the shape invariant the
// results view requires.
func (r *AnalysisResult) Renderable() bool {
	return r != nil && r.Status == StatusSuccess && r.Analytics != nil && r.Results != nil
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}
