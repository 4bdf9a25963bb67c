package quiz

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// questionSchema fixes the types of the three keys. Option count and answer
// membership are checked separately and only warned about.
const questionSchema = `{
	"type": "object",
	"properties": {
		"question": {"type": "string"},
		"options": {"type": "array", "items": {"type": "string"}},
		"answer": {"type": "string"}
	},
	"required": ["question", "options", "answer"]
}`

var compiledQuestionSchema = mustSchema(questionSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sch, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("quiz: bad schema: %v", err))
	}
	return sch
}

// validateFields checks fields against questionSchema.
func validateFields(fields map[string]any) error {
	res, err := compiledQuestionSchema.Validate(gojsonschema.NewGoLoader(fields))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("question failed schema validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// toQuestion converts already-validated fields.
func toQuestion(fields map[string]any) Question {
	q := Question{
		Question: fields["question"].(string),
		Answer:   fields["answer"].(string),
	}
	raw := fields["options"].([]any)
	q.Options = make([]string, 0, len(raw))
	for _, o := range raw {
		q.Options = append(q.Options, o.(string))
	}
	return q
}
