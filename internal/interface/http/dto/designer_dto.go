package dto

import (
	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
)

// ToDesignerPublic отдаёт только поля с флагом exposed.
func ToDesignerPublic(t *fieldcaps.Table, d *entity.Designer) map[string]any {
	if d == nil {
		return nil
	}
	out := t.ForExport(fieldcaps.KindDesigner, fieldcaps.DesignerValues(d))
	out["id"] = d.ID.String()
	return out
}
