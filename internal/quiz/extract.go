package quiz

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Extraction is the outcome of pulling a JSON object out of model text.
// Failed distinguishes "nothing usable" from a legitimately empty object.
type Extraction struct {
	Fields map[string]any
	Failed bool
	Reason string
}

func failed(reason string) Extraction {
	return Extraction{Fields: map[string]any{}, Failed: true, Reason: reason}
}

// Extract parses the span from the first '{' to the last '}' of raw as a
// JSON object. It never returns an error; failures are logged and reported
// through Extraction.Failed.
func Extract(log *slog.Logger, raw string) Extraction {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || start > end {
		log.Error("Failed to decode JSON from response: no object found", "text", raw)
		return failed("no JSON object in text")
	}
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		log.Error("Failed to decode JSON from response", "text", raw, "err", err)
		return failed(err.Error())
	}
	return Extraction{Fields: fields}
}
