package inputs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

var redirectSourceColumnNames = []string{"source", "from", "old", "oldurl", "old url", "old_url"}
var redirectTargetColumnNames = []string{"target", "to", "new", "newurl", "new url", "new_url", "destination"}

// RedirectMapParser parses a source->target CSV redirect map with tolerant column
// naming. On a duplicate source, the last row wins.
type RedirectMapParser struct {
	reader interfaces.FileReader
	logger interfaces.Logger
}

func NewRedirectMapParser(reader interfaces.FileReader, logger interfaces.Logger) *RedirectMapParser {
	return &RedirectMapParser{reader: reader, logger: logger.With(interfaces.Field{Key: "component", Value: "redirect_map_parser"})}
}

func (p *RedirectMapParser) Parse(ctx context.Context, handle string) (model.RedirectMap, error) {
	data, err := p.reader.ReadFile(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("inputs: read redirect map %s: %w", handle, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("inputs: parse redirect map csv %s: %w", handle, err)
	}
	if len(rows) == 0 {
		return model.RedirectMap{}, nil
	}

	header := rows[0]
	sourceCol := findColumn(header, redirectSourceColumnNames)
	targetCol := findColumn(header, redirectTargetColumnNames)
	if sourceCol == -1 || targetCol == -1 {
		return nil, fmt.Errorf("inputs: redirect map %s missing source/target columns", handle)
	}

	out := model.RedirectMap{}
	for _, row := range rows[1:] {
		if sourceCol >= len(row) || targetCol >= len(row) {
			continue
		}
		src := strings.TrimSpace(row[sourceCol])
		dst := strings.TrimSpace(row[targetCol])
		if src == "" || dst == "" {
			p.logger.Warn("skipping redirect row with empty source or target", interfaces.Field{Key: "handle", Value: handle})
			continue
		}
		out[src] = dst
	}
	return out, nil
}
