package results

import "github.com/binaryshield/godeye-console/internal/models"

// ChartBuilder is the optional charting capability. The results view renders
// a chart only when a builder is wired in; absence degrades to no chart.
type ChartBuilder interface {
	Build(indicators []models.Indicator) *ChartData
}

// ChartData is a labeled series a frontend chart library can consume.
type ChartData struct {
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// TypeDistribution charts how many indicators each type contributed.
type TypeDistribution struct{}

func (TypeDistribution) Build(indicators []models.Indicator) *ChartData {
	if len(indicators) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, ind := range indicators {
		indType := ind.Type
		if indType == "" {
			indType = "unknown"
		}
		if _, seen := counts[indType]; !seen {
			order = append(order, indType)
		}
		counts[indType]++
	}

	chart := &ChartData{Kind: "type_distribution"}
	for _, indType := range order {
		chart.Labels = append(chart.Labels, indType)
		chart.Values = append(chart.Values, counts[indType])
	}
	return chart
}
