package dto

import (
	"time"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

type MatchResponse struct {
	ID                  string    `json:"id"`
	BriefID             string    `json:"brief_id"`
	DesignerID          string    `json:"designer_id"`
	Score               int       `json:"score"`
	Reasons             []string  `json:"reasons"`
	PersonalizedReasons []string  `json:"personalized_reasons"`
	Confidence          string    `json:"confidence"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
}

// CandidateResponse - дизайнер с оценкой, ещё не сохранённой как подбор.
type CandidateResponse struct {
	Designer            map[string]any `json:"designer"`
	Score               int            `json:"score"`
	Reasons             []string       `json:"reasons"`
	PersonalizedReasons []string       `json:"personalized_reasons,omitempty"`
	Confidence          string         `json:"confidence"`
	MatchSummary        string         `json:"match_summary,omitempty"`
	RiskLevel           string         `json:"risk_level,omitempty"`
}

type FindMatchResponse struct {
	RunID        string              `json:"run_id"`
	Status       string              `json:"status"`
	Match        *MatchResponse      `json:"match,omitempty"`
	Designer     map[string]any      `json:"designer,omitempty"`
	Matches      []MatchResponse     `json:"matches"`
	Alternatives []CandidateResponse `json:"alternatives"`
	Created      bool                `json:"created"`
}

// PhaseEvent - данные SSE события phase.
type PhaseEvent struct {
	Phase        string              `json:"phase"`
	Status       string              `json:"status"`
	Best         *CandidateResponse  `json:"best,omitempty"`
	Match        *MatchResponse      `json:"match,omitempty"`
	Confidence   string              `json:"confidence,omitempty"`
	ElapsedMs    int64               `json:"elapsed_ms"`
	Alternatives []CandidateResponse `json:"alternatives"`
}

func ToMatchResponse(m *entity.Match) *MatchResponse {
	if m == nil {
		return nil
	}
	return &MatchResponse{
		ID:                  m.ID.String(),
		BriefID:             m.BriefID.String(),
		DesignerID:          m.DesignerID.String(),
		Score:               m.Score,
		Reasons:             nonNil(m.Reasons),
		PersonalizedReasons: nonNil(m.PersonalizedReasons),
		Confidence:          string(m.Confidence),
		Status:              string(m.Status),
		CreatedAt:           m.CreatedAt,
	}
}

func ToMatchListResponse(matches []*entity.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, *ToMatchResponse(m))
	}
	return out
}

func ToCandidateResponse(t *fieldcaps.Table, c *matching.Candidate) *CandidateResponse {
	if c == nil || c.Result == nil {
		return nil
	}
	return &CandidateResponse{
		Designer:            ToDesignerPublic(t, c.Designer),
		Score:               c.Result.Score,
		Reasons:             nonNil(c.Result.Reasons),
		PersonalizedReasons: c.Result.PersonalizedReasons,
		Confidence:          string(c.Result.Confidence),
		MatchSummary:        c.Result.MatchSummary,
		RiskLevel:           string(c.Result.RiskLevel),
	}
}

func toCandidateList(t *fieldcaps.Table, candidates []matching.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(candidates))
	for i := range candidates {
		if r := ToCandidateResponse(t, &candidates[i]); r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func ToFindMatchResponse(t *fieldcaps.Table, r *matching.FindMatchResult) FindMatchResponse {
	resp := FindMatchResponse{
		RunID:        r.RunID,
		Status:       string(r.Status),
		Match:        ToMatchResponse(r.Match),
		Matches:      []MatchResponse{},
		Alternatives: toCandidateList(t, r.Alternatives),
		Created:      r.Created,
	}
	if r.Match != nil {
		resp.Matches = append(resp.Matches, *resp.Match)
	}
	if r.Designer != nil {
		resp.Designer = ToDesignerPublic(t, r.Designer)
	}
	return resp
}

func ToPhaseEvent(t *fieldcaps.Table, u matching.PhaseUpdate) PhaseEvent {
	return PhaseEvent{
		Phase:        string(u.Phase),
		Status:       string(u.Status),
		Best:         ToCandidateResponse(t, u.Best),
		Match:        ToMatchResponse(u.Match),
		Confidence:   string(u.Confidence),
		ElapsedMs:    u.Elapsed.Milliseconds(),
		Alternatives: toCandidateList(t, u.Alternatives),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
