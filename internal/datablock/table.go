package datablock

import (
	"fmt"
	"strconv"

	"drillchat/internal/models"
)

// SanitizeTable forces every row to the header length: short rows are padded
// with nil, long rows truncated, and rows that are not sequences at all are
// replaced with all-nil rows. A note is attached when anything was corrected.
func SanitizeTable(headers []any, rows []any, title string) *models.TablePayload {
	hs := make([]string, len(headers))
	for i, h := range headers {
		hs[i] = cellString(h)
	}

	changed := false
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		cells, ok := r.([]any)
		if !ok {
			changed = true
			out = append(out, make([]any, len(hs)))
			continue
		}
		switch {
		case len(cells) < len(hs):
			changed = true
			padded := make([]any, len(hs))
			copy(padded, cells)
			out = append(out, padded)
		case len(cells) > len(hs):
			changed = true
			out = append(out, cells[:len(hs)])
		default:
			out = append(out, cells)
		}
	}

	tbl := &models.TablePayload{Headers: hs, Rows: out, Title: title}
	if changed {
		tbl.Note = "Some rows were padded or truncated to match the header count."
	}
	return tbl
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
