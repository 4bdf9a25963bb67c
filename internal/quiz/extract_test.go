package quiz

import (
	"bytes"
	"testing"

	"github.com/mind-engage/railquiz/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		failed bool
		want   map[string]any
	}{
		{
			name: "bare object",
			raw:  `{"question":"Q","options":["a","b","c","d"],"answer":"b"}`,
			want: map[string]any{"question": "Q", "options": []any{"a", "b", "c", "d"}, "answer": "b"},
		},
		{
			name: "markdown fence and chatter",
			raw:  "Sure! Here you go:\n```json\n{\"question\": \"Q\", \"answer\": \"x\"}\n```\nEnjoy.",
			want: map[string]any{"question": "Q", "answer": "x"},
		},
		{
			name: "empty object is not a failure",
			raw:  "{}",
			want: map[string]any{},
		},
		{name: "no braces", raw: "I cannot help with that.", failed: true},
		{name: "reversed braces", raw: "} oops {", failed: true},
		{name: "broken json", raw: `{"question": "Q", "options": [}`, failed: true},
		{name: "two objects", raw: `{"a":1} and {"b":2}`, failed: true},
		{name: "trailing bracket", raw: `{"a":1}]`, want: map[string]any{"a": float64(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			ex := Extract(logging.New(&buf, "info"), tc.raw)
			assert.Equal(t, tc.failed, ex.Failed)
			if tc.failed {
				assert.NotNil(t, ex.Fields)
				assert.Empty(t, ex.Fields)
				assert.NotEmpty(t, ex.Reason)
				assert.Contains(t, buf.String(), "Failed to decode JSON from response")
				return
			}
			assert.Equal(t, tc.want, ex.Fields)
			assert.Empty(t, buf.String())
		})
	}
}
