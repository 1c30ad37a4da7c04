package events

import (
	"time"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

const EventMatchFound = "match_found"

// MatchCreatedPayload - тело события о новом подборе.
type MatchCreatedPayload struct {
	MatchID    string    `json:"match_id"`
	BriefID    string    `json:"brief_id"`
	DesignerID string    `json:"designer_id"`
	ClientID   string    `json:"client_id"`
	Score      int       `json:"score"`
	Confidence string    `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	CreatedAt  time.Time `json:"created_at"`
}

func newMatchCreatedPayload(m *entity.Match) MatchCreatedPayload {
	return MatchCreatedPayload{
		MatchID:    m.ID.String(),
		BriefID:    m.BriefID.String(),
		DesignerID: m.DesignerID.String(),
		ClientID:   m.ClientID.String(),
		Score:      m.Score,
		Confidence: string(m.Confidence),
		Reasons:    m.Reasons,
		CreatedAt:  m.CreatedAt,
	}
}
