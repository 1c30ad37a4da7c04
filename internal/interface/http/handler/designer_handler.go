package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/dto"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/response"
)

type DesignerGetter interface {
	Execute(ctx context.Context, designerID uuid.UUID, isAdmin bool) (*entity.Designer, error)
}

type DesignerHandler struct {
	getter DesignerGetter
	fields *fieldcaps.Table
}

func NewDesignerHandler(getter DesignerGetter, fields *fieldcaps.Table) *DesignerHandler {
	if fields == nil {
		fields = fieldcaps.Default()
	}
	return &DesignerHandler{getter: getter, fields: fields}
}

// GetDesigner обрабатывает GET /designers/:id и отдаёт публичную карточку.
func (h *DesignerHandler) GetDesigner(c *gin.Context) {
	designerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "неверный ID дизайнера")
		return
	}

	d, err := h.getter.Execute(c.Request.Context(), designerID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDesignerPublic(h.fields, d))
}
