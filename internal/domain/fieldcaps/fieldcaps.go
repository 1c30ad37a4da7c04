// Package fieldcaps описывает, какие поля брифа и дизайнера участвуют в оценке
// и какие можно отдавать наружу. Таблица задаётся один раз в fields.yaml.
package fieldcaps

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

//go:embed fields.yaml
var defaultTable []byte

type Kind string

const (
	KindDesigner Kind = "designer"
	KindBrief    Kind = "brief"
)

type Capability struct {
	UsedInMatching bool `yaml:"used_in_matching"`
	Exposed        bool `yaml:"exposed"`
}

type Table struct {
	Designer map[string]Capability `yaml:"designer"`
	Brief    map[string]Capability `yaml:"brief"`
}

var (
	defaultOnce sync.Once
	defaultTbl  *Table
	defaultErr  error
)

// Default возвращает встроенную таблицу полей.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTbl, defaultErr = Parse(defaultTable)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("fieldcaps: встроенная таблица повреждена: %v", defaultErr))
	}
	return defaultTbl
}

func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("fieldcaps: parse: %w", err)
	}
	if len(t.Designer) == 0 || len(t.Brief) == 0 {
		return nil, fmt.Errorf("fieldcaps: таблица должна описывать designer и brief")
	}
	return &t, nil
}

func (t *Table) caps(kind Kind) map[string]Capability {
	switch kind {
	case KindDesigner:
		return t.Designer
	case KindBrief:
		return t.Brief
	}
	return nil
}

func (t *Table) UsedInMatching(kind Kind, field string) bool {
	return t.caps(kind)[field].UsedInMatching
}

func (t *Table) Exposed(kind Kind, field string) bool {
	return t.caps(kind)[field].Exposed
}

// MatchingFields возвращает отсортированный список полей для промпта.
func (t *Table) MatchingFields(kind Kind) []string {
	var out []string
	for name, c := range t.caps(kind) {
		if c.UsedInMatching {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ForMatching оставляет только поля, разрешённые для оценки.
func (t *Table) ForMatching(kind Kind, values map[string]any) map[string]any {
	return t.project(kind, values, func(c Capability) bool { return c.UsedInMatching })
}

// ForExport оставляет только поля, разрешённые во внешних ответах.
func (t *Table) ForExport(kind Kind, values map[string]any) map[string]any {
	return t.project(kind, values, func(c Capability) bool { return c.Exposed })
}

func (t *Table) project(kind Kind, values map[string]any, keep func(Capability) bool) map[string]any {
	caps := t.caps(kind)
	out := make(map[string]any, len(values))
	for name, v := range values {
		c, ok := caps[name]
		if !ok || !keep(c) {
			continue
		}
		out[name] = v
	}
	return out
}

// DesignerValues раскладывает карточку дизайнера по именам полей таблицы.
func DesignerValues(d *entity.Designer) map[string]any {
	sizes := make([]string, 0, len(d.ProjectSizes))
	for _, s := range d.ProjectSizes {
		sizes = append(sizes, string(s))
	}
	return map[string]any{
		"user_id":              d.UserID.String(),
		"display_name":         d.DisplayName,
		"email":                d.Email,
		"phone":                d.Phone,
		"bio":                  d.Bio,
		"portfolio_url":        d.PortfolioURL,
		"primary_category":     d.PrimaryCategory,
		"secondary_categories": d.SecondaryCategories,
		"styles":               d.Styles,
		"industries":           d.Industries,
		"project_sizes":        sizes,
		"turnaround_days":      d.Turnaround,
		"availability":         string(d.Availability),
		"approved":             d.Approved,
		"verified":             d.Verified,
		"rating":               d.Rating,
		"completed_projects":   d.CompletedProjects,
		"on_time_rate":         d.OnTimeRate,
		"years_experience":     d.YearsExperience,
		"admin_notes":          d.AdminNotes,
	}
}

func BriefValues(b *entity.Brief) map[string]any {
	return map[string]any{
		"client_id":      b.ClientID.String(),
		"category":       b.Category,
		"industry":       b.Industry,
		"budget":         string(b.Budget),
		"timeline":       string(b.Timeline),
		"description":    b.Description,
		"style_keywords": b.StyleKeywords,
	}
}
