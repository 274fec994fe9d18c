package datablock

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"drillchat/internal/models"
)

var slugRe = regexp.MustCompile(`[\s.\-]+`)

// slugKey rewrites a record key to something chart libraries accept as a
// series dataKey: runs of whitespace, periods, and hyphens become one
// underscore.
func slugKey(k string) string {
	return slugRe.ReplaceAllString(strings.TrimSpace(k), "_")
}

// categoryKeyNames are preferred category keys, in order, for line/bar/area/
// composed charts.
var categoryKeyNames = []string{"name", "category", "label", "categoria"}

// SanitizeGraph validates and repairs a graph payload candidate. It returns
// nil when the candidate is not a renderable graph (unknown type, no data).
// Sanitizing an already-sanitized line/bar/area payload is a no-op.
func SanitizeGraph(g *models.GraphPayload) *models.GraphPayload {
	if g == nil || !models.IsGraphType(g.Type) || len(g.Data) == 0 {
		return nil
	}
	out := &models.GraphPayload{
		Type:    g.Type,
		Title:   g.Title,
		Options: cloneOptions(g.Options),
	}
	var notes []string
	switch g.Type {
	case models.GraphScatter:
		data, note, ok := sanitizeScatter(g)
		if !ok {
			return nil
		}
		out.Data = data
		if note != "" {
			notes = append(notes, note)
		}
	case models.GraphPie:
		data, ok := sanitizePie(g)
		if !ok {
			return nil
		}
		out.Data = data
	default:
		data, renames := sanitizeCategorical(g)
		out.Data = data
		if len(renames) > 0 {
			notes = append(notes, renameNote(renames))
			remapSeriesKeys(out.Options, renames)
		}
	}
	if len(notes) > 0 {
		if out.Options == nil {
			out.Options = map[string]any{}
		}
		out.Options["note"] = strings.Join(notes, " ")
	}
	return out
}

// sanitizeScatter remaps the two source keys feeding the axes onto canonical
// x/y keys. Source keys come from axis-name hints in options, falling back to
// the first two numeric-valued keys of the first record.
func sanitizeScatter(g *models.GraphPayload) ([]map[string]any, string, bool) {
	xKey := axisNameHint(g.Options, "xAxis")
	yKey := axisNameHint(g.Options, "yAxis")

	first := g.Data[0]
	if xKey == "" || yKey == "" {
		nums := numericKeys(first)
		if len(nums) < 2 {
			return nil, "", false
		}
		xKey, yKey = nums[0], nums[1]
	}
	if _, ok := first[xKey]; !ok {
		// Hinted key absent: either the payload is already canonical or the
		// hint is stale; accept canonical x/y when present.
		if _, hasX := first["x"]; hasX {
			if _, hasY := first["y"]; hasY {
				xKey, yKey = "x", "y"
			}
		}
	}

	data := make([]map[string]any, 0, len(g.Data))
	for _, rec := range g.Data {
		nr := make(map[string]any, len(rec))
		for k, v := range rec {
			switch k {
			case xKey:
				nr["x"] = coerceIfNumeric(v)
			case yKey:
				nr["y"] = coerceIfNumeric(v)
			default:
				nr[slugKey(k)] = v
			}
		}
		data = append(data, nr)
	}

	note := ""
	if xKey != "x" || yKey != "y" {
		note = fmt.Sprintf("Scatter axes were remapped: %q → \"x\", %q → \"y\".", xKey, yKey)
	}
	return data, note, true
}

// sanitizePie requires a name plus a numeric (or numeric-looking) value per
// slice.
func sanitizePie(g *models.GraphPayload) ([]map[string]any, bool) {
	data := make([]map[string]any, 0, len(g.Data))
	for _, rec := range g.Data {
		if _, ok := rec["name"]; !ok {
			return nil, false
		}
		v, ok := toNumber(rec["value"])
		if !ok {
			return nil, false
		}
		nr := make(map[string]any, len(rec))
		for k, val := range rec {
			switch k {
			case "name":
				nr["name"] = val
			case "value":
				nr["value"] = v
			default:
				nr[slugKey(k)] = val
			}
		}
		data = append(data, nr)
	}
	return data, true
}

// sanitizeCategorical handles line/bar/area/composed: one category key stays
// untouched, every other key is slug-sanitized and numeric-looking string
// values are coerced to numbers.
func sanitizeCategorical(g *models.GraphPayload) ([]map[string]any, map[string]string) {
	catKey := categoryKey(g.Data[0])
	renames := map[string]string{}
	data := make([]map[string]any, 0, len(g.Data))
	for _, rec := range g.Data {
		nr := make(map[string]any, len(rec))
		for k, v := range rec {
			if k == catKey {
				nr[k] = v
				continue
			}
			nk := slugKey(k)
			if nk != k {
				renames[k] = nk
			}
			nr[nk] = coerceIfNumeric(v)
		}
		data = append(data, nr)
	}
	return data, renames
}

// categoryKey prefers a literally-named category key, then the first
// string-valued key in sorted order.
func categoryKey(rec map[string]any) string {
	for _, name := range categoryKeyNames {
		if _, ok := rec[name]; ok {
			return name
		}
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := rec[k].(string); ok {
			return k
		}
	}
	return ""
}

// numericKeys returns the record's numeric-valued keys in sorted order.
func numericKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := toNumber(rec[k]); ok {
			out = append(out, k)
		}
	}
	return out
}

func axisNameHint(options map[string]any, axis string) string {
	ax, ok := options[axis].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := ax["name"].(string)
	return strings.TrimSpace(name)
}

// remapSeriesKeys rewrites per-series dataKey config (composed charts) so it
// keeps pointing at the slug-sanitized record keys.
func remapSeriesKeys(options map[string]any, renames map[string]string) {
	if options == nil {
		return
	}
	series, ok := options["series"].([]any)
	if !ok {
		return
	}
	out := make([]any, 0, len(series))
	for _, s := range series {
		cfg, ok := s.(map[string]any)
		if !ok {
			out = append(out, s)
			continue
		}
		nc := make(map[string]any, len(cfg))
		for k, v := range cfg {
			nc[k] = v
		}
		if dk, ok := nc["dataKey"].(string); ok {
			if nk, renamed := renames[dk]; renamed {
				nc["dataKey"] = nk
			}
		}
		out = append(out, nc)
	}
	options["series"] = out
}

func renameNote(renames map[string]string) string {
	pairs := make([]string, 0, len(renames))
	for from := range renames {
		pairs = append(pairs, from)
	}
	sort.Strings(pairs)
	parts := make([]string, 0, len(pairs))
	for _, from := range pairs {
		parts = append(parts, fmt.Sprintf("%q → %q", from, renames[from]))
	}
	return "Series keys were renamed for charting: " + strings.Join(parts, ", ") + "."
}

func cloneOptions(options map[string]any) map[string]any {
	if options == nil {
		return nil
	}
	out := make(map[string]any, len(options))
	for k, v := range options {
		out[k] = v
	}
	return out
}

// toNumber reports v as a float64 when it is a number or a numeric-looking
// string.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceIfNumeric(v any) any {
	if s, ok := v.(string); ok {
		if f, numeric := toNumber(s); numeric {
			return f
		}
	}
	return v
}
