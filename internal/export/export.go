package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/google/uuid"
)

// ErrNoIndicators is returned when a CSV export is requested for a payload
// with no indicator rows. The caller surfaces a "no data" notification
// instead of producing a header-only download.
var ErrNoIndicators = errors.New("no indicators to export")

var csvHeader = []string{"Indicator", "Type", "Confidence%", "Connections", "Source"}

// JSON returns the stored payload bytes unchanged. The export contract is
// verbatim: whatever was persisted is what downloads.
func JSON(raw []byte) []byte {
	return raw
}

// CSV serializes the indicator list with fixed columns. Every cell is quoted,
// including numeric ones, and absent values fall back to "unknown"/0.
func CSV(result *models.AnalysisResult) ([]byte, error) {
	if result == nil || len(result.Results) == 0 {
		return nil, ErrNoIndicators
	}

	var b strings.Builder
	writeRow(&b, csvHeader)

	for _, ind := range result.Results {
		indicator := ind.Indicator
		if indicator == "" {
			indicator = "unknown"
		}
		indType := ind.Type
		if indType == "" {
			indType = "unknown"
		}
		source := ind.Source
		if source == "" {
			source = "unknown"
		}

		writeRow(&b, []string{
			indicator,
			indType,
			strconv.Itoa(int(ind.Confidence*100 + 0.5)),
			strconv.Itoa(ind.Connections),
			source,
		})
	}

	return []byte(b.String()), nil
}

// writeRow quotes every cell unconditionally. encoding/csv only quotes cells
// that need it, and the report format wants uniform quoting.
func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// Filename builds a unique download name for a report.
func Filename(kind string) string {
	return fmt.Sprintf("godeye-report-%s-%s.%s",
		time.Now().UTC().Format("20060102-150405"),
		uuid.NewString()[:8],
		kind)
}
