// internal/llm/json.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CompleteJSON asks the model for structured output, validates it against the
// given JSON schema, and unmarshals it into out. Model chatter around the
// JSON object is tolerated; everything outside the outermost braces is cut.
func (c *Client) CompleteJSON(ctx context.Context, system, user, schema string, out interface{}) error {
	text, err := c.Complete(ctx, system, user)
	if err != nil {
		return err
	}

	raw, err := extractJSON(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParseFailed, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParseFailed, err)
	}
	if !result.Valid() {
		var issues []string
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return fmt.Errorf("%w: schema violations: %s", ErrLLMParseFailed, strings.Join(issues, "; "))
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParseFailed, err)
	}
	return nil
}

// extractJSON returns the substring between the first '{' and the last '}'.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return text[start : end+1], nil
}
