package inputs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// AnalyticsParser parses a search-console-style CSV export (URL, clicks, impressions,
// CTR, average position) with tolerant, case-insensitive column matching.
type AnalyticsParser struct {
	reader interfaces.FileReader
	logger interfaces.Logger
}

func NewAnalyticsParser(reader interfaces.FileReader, logger interfaces.Logger) *AnalyticsParser {
	return &AnalyticsParser{reader: reader, logger: logger.With(interfaces.Field{Key: "component", Value: "analytics_parser"})}
}

var urlColumnNames = []string{"url", "page"}
var clicksColumnNames = []string{"clicks"}
var impressionsColumnNames = []string{"impressions"}
var ctrColumnNames = []string{"ctr"}
var positionColumnNames = []string{"position", "avg. position", "average position"}

func findColumn(header []string, candidates []string) int {
	for i, h := range header {
		norm := strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if norm == c {
				return i
			}
		}
	}
	return -1
}

// Parse reads the CSV at handle and returns one AnalyticsEntry per data row, keeping
// the first occurrence of each URL and discarding later duplicates.
func (p *AnalyticsParser) Parse(ctx context.Context, handle string) ([]model.AnalyticsEntry, error) {
	data, err := p.reader.ReadFile(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("inputs: read analytics export %s: %w", handle, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("inputs: parse analytics csv %s: %w", handle, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	urlCol := findColumn(header, urlColumnNames)
	if urlCol == -1 {
		return nil, fmt.Errorf("inputs: analytics export %s missing a URL/Page column", handle)
	}
	clicksCol := findColumn(header, clicksColumnNames)
	impressionsCol := findColumn(header, impressionsColumnNames)
	ctrCol := findColumn(header, ctrColumnNames)
	positionCol := findColumn(header, positionColumnNames)

	seen := make(map[string]bool)
	out := make([]model.AnalyticsEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if urlCol >= len(row) {
			continue
		}
		url := strings.TrimSpace(row[urlCol])
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		entry := model.AnalyticsEntry{URL: url}
		entry.Clicks = parseFloatColumn(row, clicksCol)
		entry.Impressions = parseFloatColumn(row, impressionsCol)
		entry.CTR = parseFloatColumn(row, ctrCol)
		entry.Position = parseFloatColumn(row, positionCol)
		out = append(out, entry)
	}
	return out, nil
}

func parseFloatColumn(row []string, col int) float64 {
	if col == -1 || col >= len(row) {
		return 0
	}
	raw := strings.TrimSpace(strings.TrimSuffix(row[col], "%"))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
