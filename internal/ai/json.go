package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON пытается извлечь JSON объект из текста, который может содержать
// markdown или пояснения модели вокруг него.
func ExtractJSON(text string) ([]byte, error) {
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd > jsonStart {
		candidate := []byte(text[jsonStart : jsonEnd+1])
		if json.Valid(candidate) {
			return candidate, nil
		}
	}

	if m := codeBlockRe.FindStringSubmatch(text); len(m) > 1 {
		candidate := []byte(m[1])
		if json.Valid(candidate) {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("ai: в ответе нет корректного JSON")
}
