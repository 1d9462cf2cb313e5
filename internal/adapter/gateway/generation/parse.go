package generation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

//go:embed synthesis_schema.json
var synthesisSchema string

// parseSynthesis validates a backend response against the thread
// synthesis schema and unmarshals it. Backends often wrap JSON in
// markdown code fences; those are stripped first.
func parseSynthesis(text string) (*narrative.ThreadSynthesis, error) {
	cleaned := cleanJSONBlock(text)

	schemaLoader := gojsonschema.NewStringLoader(synthesisSchema)
	documentLoader := gojsonschema.NewStringLoader(cleaned)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("synthesis response is not valid JSON: %w", err)
	}

	if !result.Valid() {
		var sb strings.Builder
		sb.WriteString("synthesis response failed schema validation:")
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			fmt.Fprintf(&sb, "\n  %s: %s", field, desc.Description())
		}
		return nil, fmt.Errorf("%s", sb.String())
	}

	var ts narrative.ThreadSynthesis
	if err := json.Unmarshal([]byte(cleaned), &ts); err != nil {
		return nil, fmt.Errorf("unmarshal synthesis failed: %w", err)
	}

	return &ts, nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
