package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

func TestRender(t *testing.T) {
	report := &matching.PreviewReport{
		Brief: &entity.Brief{ID: uuid.New(), Category: "logo", Budget: valueobject.BudgetEntry, Timeline: valueobject.TimelineUrgent},
		Ranked: []matching.Candidate{{
			Designer: &entity.Designer{DisplayName: "Мария", Rating: 4.8, YearsExperience: 6},
			Result:   &entity.MatchResult{Score: 82, Reasons: []string{"логотипы", "ритейл"}, Confidence: valueobject.ConfidenceFallback},
		}},
		Rejected: []matching.Rejection{{Designer: &entity.Designer{DisplayName: "Пётр"}, Reason: "budget"}},
		Elapsed:  1500 * time.Microsecond,
	}

	var buf bytes.Buffer
	render(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "Мария")
	assert.Contains(t, out, "82")
	assert.Contains(t, out, "логотипы; ритейл")
	assert.Contains(t, out, "Пётр")
	assert.Contains(t, out, "budget")
	assert.Contains(t, out, "2ms")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, &matching.PreviewReport{Brief: &entity.Brief{ID: uuid.New()}})

	assert.Contains(t, buf.String(), "нет подходящих дизайнеров")
	assert.NotContains(t, buf.String(), "Rejected by")
}
