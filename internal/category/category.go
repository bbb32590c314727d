package category

import (
	"time"

	categoryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/category"
)

// Type says whether a category classifies incomes or expenses.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

const DefaultColor = "#007bff"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedBy int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// VisibleTo reports whether a user in the given shared group may see the
// category. Defaults are visible to everyone.
func (c *Category) VisibleTo(groupIDs []int64) bool {
	if c.IsDefault {
		return true
	}
	for _, id := range groupIDs {
		if c.CreatedBy == id {
			return true
		}
	}
	return false
}

func NewCategory(name string, typ Type, color string, icon *string, createdBy int64) *Category {
	if color == "" {
		color = DefaultColor
	}
	return &Category{
		Name:      name,
		Type:      typ,
		Color:     color,
		Icon:      icon,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(m *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        m.ID,
		Name:      m.Name,
		Type:      Type(m.Type),
		Color:     m.Color,
		Icon:      m.Icon,
		IsDefault: m.IsDefault,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func FromDataModelSlice(models []*categoryDatamodel.Category) []*Category {
	result := make([]*Category, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
