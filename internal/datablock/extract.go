// Package datablock detects chart/table JSON embedded in LLM reply text,
// repairs its shape, and returns the cleaned reply alongside the payload.
package datablock

import (
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"

	"drillchat/internal/models"

	"github.com/tidwall/gjson"
)

// Marker delimiters the assistant is instructed to wrap data blocks in.
const (
	GraphMarkerOpen = "<!--GRAPH_DATA:"
	TableMarkerOpen = "<!--TABLE_DATA:"
	MarkerClose     = "-->"
)

var (
	graphMarkerRe = regexp.MustCompile(`(?s)<!--GRAPH_DATA:\s*(.*?)\s*-->`)
	tableMarkerRe = regexp.MustCompile(`(?s)<!--TABLE_DATA:\s*(.*?)\s*-->`)
)

// Extract scans a raw reply for one embedded data block and sanitizes it.
// Graph markers win over table markers; at most one payload is returned.
// Malformed JSON inside a marker is logged and the text is returned
// unchanged. A marker whose JSON parses but has the wrong shape is treated
// as no match and scanning falls through.
func Extract(text string) (string, *models.GraphPayload, *models.TablePayload) {
	if loc := graphMarkerRe.FindStringSubmatchIndex(text); loc != nil {
		g, err := parseGraph(text[loc[2]:loc[3]])
		if err != nil {
			log.Printf("datablock: graph marker JSON parse failed: %v", err)
			return text, nil, nil
		}
		if g != nil {
			return cutSpan(text, loc[0], loc[1]), g, nil
		}
	}
	if loc := tableMarkerRe.FindStringSubmatchIndex(text); loc != nil {
		tbl, err := parseTable(text[loc[2]:loc[3]])
		if err != nil {
			log.Printf("datablock: table marker JSON parse failed: %v", err)
			return text, nil, nil
		}
		if tbl != nil {
			return cutSpan(text, loc[0], loc[1]), nil, tbl
		}
	}
	return extractImplicit(text)
}

// extractImplicit looks for a bare JSON object whose top-level keys suggest a
// graph (type+data) or table (headers+rows) shape. The first candidate that
// parses and survives sanitization is honored.
func extractImplicit(text string) (string, *models.GraphPayload, *models.TablePayload) {
	if !strings.Contains(text, `"data"`) && !strings.Contains(text, `"rows"`) {
		return text, nil, nil
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var rawMsg json.RawMessage
		if err := dec.Decode(&rawMsg); err != nil {
			continue
		}
		raw := string(rawMsg)
		end := i + int(dec.InputOffset())

		res := gjson.Parse(raw)
		if !res.IsObject() {
			continue
		}
		looksGraph := res.Get("type").Exists() && res.Get("data").Exists()
		looksTable := res.Get("headers").Exists() && res.Get("rows").Exists()
		if looksGraph {
			if g, err := parseGraph(raw); err == nil && g != nil {
				return cutSpan(text, i, end), g, nil
			}
		}
		if looksTable {
			if tbl, err := parseTable(raw); err == nil && tbl != nil {
				return cutSpan(text, i, end), nil, tbl
			}
		}
		if looksGraph || looksTable {
			// Suggestive keys but an unusable body: skip past this object.
			i = end - 1
		}
	}
	return text, nil, nil
}

// parseGraph decodes marker contents into a sanitized GraphPayload.
// A syntax error is a parse failure; a type mismatch or an unknown chart type
// means the contents are not a graph block and yields (nil, nil).
func parseGraph(raw string) (*models.GraphPayload, error) {
	var g models.GraphPayload
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil
		}
		return nil, err
	}
	return SanitizeGraph(&g), nil
}

func parseTable(raw string) (*models.TablePayload, error) {
	var rt struct {
		Headers []any  `json:"headers"`
		Rows    []any  `json:"rows"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal([]byte(raw), &rt); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil
		}
		return nil, err
	}
	if len(rt.Headers) == 0 || rt.Rows == nil {
		return nil, nil
	}
	return SanitizeTable(rt.Headers, rt.Rows, rt.Title), nil
}

func cutSpan(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + text[end:])
}
