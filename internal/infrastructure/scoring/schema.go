package scoring

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// matchResultSchema описывает ответ модели. Поля вне схемы игнорируются
// при разборе, но обязательные поля и диапазоны проверяются строго.
const matchResultSchema = `{
  "type": "object",
  "required": ["score", "reasons", "confidence"],
  "properties": {
    "score": {"type": "number", "minimum": 0, "maximum": 100},
    "reasons": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "personalizedReasons": {"type": "array", "items": {"type": "string"}},
    "confidence": {"type": "string", "enum": ["low", "medium", "high"]},
    "matchSummary": {"type": "string"},
    "uniqueValue": {"type": "string"},
    "challenges": {"type": "array", "items": {"type": "string"}},
    "riskLevel": {"type": "string", "enum": ["low", "medium", "high"]}
  }
}`

var compiledSchema = mustCompileSchema(matchResultSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("scoring: invalid schema: %v", err))
	}
	return s
}

// validateResultJSON проверяет сырой JSON ответа до его использования.
func validateResultJSON(raw []byte) error {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
