package ai

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
)

const matchSystemPrompt = `Ты - ассистент маркетплейса дизайнеров. Оцени, насколько дизайнер подходит под бриф клиента.
Отвечай строго одним JSON объектом без пояснений:
{"score": 0-100, "reasons": ["до 3 коротких причин"], "personalizedReasons": ["до 5 причин, обращённых к клиенту"],
"confidence": "low|medium|high", "matchSummary": "одно предложение", "uniqueValue": "чем выделяется дизайнер",
"challenges": ["возможные сложности"], "riskLevel": "low|medium|high"}`

// maxFreeTextRunes ограничивает длину свободного текста в промпте.
const maxFreeTextRunes = 1200

var stripPolicy = bluemonday.StrictPolicy()

// BuildMatchMessages собирает промпт оценки. В него попадают только поля,
// отмеченные в таблице как используемые при подборе.
func BuildMatchMessages(table *fieldcaps.Table, designer *entity.Designer, brief *entity.Brief) ([]Message, error) {
	briefView := sanitizeValues(table.ForMatching(fieldcaps.KindBrief, fieldcaps.BriefValues(brief)))
	designerView := sanitizeValues(table.ForMatching(fieldcaps.KindDesigner, fieldcaps.DesignerValues(designer)))

	briefJSON, err := json.MarshalIndent(briefView, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ai: marshal brief: %w", err)
	}
	designerJSON, err := json.MarshalIndent(designerView, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ai: marshal designer: %w", err)
	}

	var b strings.Builder
	b.WriteString("Бриф клиента:\n")
	b.Write(briefJSON)
	b.WriteString("\n\nПрофиль дизайнера:\n")
	b.Write(designerJSON)
	b.WriteString("\n\nВерни JSON с оценкой.")

	return []Message{
		{Role: RoleSystem, Content: matchSystemPrompt},
		{Role: RoleUser, Content: b.String()},
	}, nil
}

// SanitizeText убирает разметку из пользовательского текста и обрезает его.
func SanitizeText(s string) string {
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	clean = strings.Join(strings.Fields(clean), " ")
	if r := []rune(clean); len(r) > maxFreeTextRunes {
		clean = string(r[:maxFreeTextRunes])
	}
	return clean
}

func sanitizeValues(values map[string]any) map[string]any {
	for k, v := range values {
		switch typed := v.(type) {
		case string:
			values[k] = SanitizeText(typed)
		case []string:
			clean := make([]string, 0, len(typed))
			for _, s := range typed {
				if s = SanitizeText(s); s != "" {
					clean = append(clean, s)
				}
			}
			values[k] = clean
		}
	}
	return values
}
