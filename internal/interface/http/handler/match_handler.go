package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/dto"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/response"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

type MatchFinder interface {
	Execute(ctx context.Context, input matching.FindMatchInput) (*matching.FindMatchResult, error)
	Stream(ctx context.Context, input matching.FindMatchInput, emit matching.Emitter) (*matching.FindMatchResult, error)
}

type MatchLister interface {
	Execute(ctx context.Context, briefID, userID uuid.UUID, isAdmin bool) ([]*entity.Match, error)
}

type MatchHandler struct {
	finder MatchFinder
	lister MatchLister
	fields *fieldcaps.Table
}

func NewMatchHandler(finder MatchFinder, lister MatchLister, fields *fieldcaps.Table) *MatchHandler {
	if fields == nil {
		fields = fieldcaps.Default()
	}
	return &MatchHandler{finder: finder, lister: lister, fields: fields}
}

func (h *MatchHandler) input(c *gin.Context) (matching.FindMatchInput, bool) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return matching.FindMatchInput{}, false
	}
	briefID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "неверный ID брифа")
		return matching.FindMatchInput{}, false
	}
	rematch, alternatives, err := parseMatchQuery(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return matching.FindMatchInput{}, false
	}
	return matching.FindMatchInput{
		BriefID:      briefID,
		UserID:       userID,
		IsAdmin:      isAdmin(c),
		Rematch:      rematch,
		Alternatives: alternatives,
	}, true
}

// FindMatch обрабатывает POST /briefs/:id/match.
func (h *MatchHandler) FindMatch(c *gin.Context) {
	input, ok := h.input(c)
	if !ok {
		return
	}

	result, err := h.finder.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFindMatchResponse(h.fields, result))
}

// StreamMatch обрабатывает GET /briefs/:id/match/stream: события phase,
// затем done или error.
func (h *MatchHandler) StreamMatch(c *gin.Context) {
	input, ok := h.input(c)
	if !ok {
		return
	}

	stream, ok := newSSEStream(c)
	if !ok {
		response.BadRequest(c, "стриминг не поддерживается")
		return
	}

	result, err := h.finder.Stream(c.Request.Context(), input, func(u matching.PhaseUpdate) error {
		return stream.send("phase", dto.ToPhaseEvent(h.fields, u))
	})
	if err != nil {
		if !stream.started {
			response.Error(c, err)
			return
		}
		_, body := response.ErrorBody(err)
		_ = stream.send("error", gin.H{"error": body.Error, "message": body.Message})
		return
	}

	_ = stream.send("done", gin.H{"run_id": result.RunID, "status": result.Status})
}

// ListMatches обрабатывает GET /briefs/:id/matches.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	briefID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "неверный ID брифа")
		return
	}

	matches, err := h.lister.Execute(c.Request.Context(), briefID, userID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"matches": dto.ToMatchListResponse(matches)})
}
