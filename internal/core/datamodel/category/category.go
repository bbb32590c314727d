package category

import "time"

// Category is the persistence model for income/expense categories.
// (name, type, created_by) is unique; default categories are visible to
// every user regardless of owner.
type Category struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_categories_name_type_owner"`
	Type      string    `gorm:"column:type;not null;uniqueIndex:idx_categories_name_type_owner"`
	Color     string    `gorm:"column:color;default:#007bff"`
	Icon      *string   `gorm:"column:icon"`
	IsDefault bool      `gorm:"column:is_default;default:false"`
	CreatedBy int64     `gorm:"column:created_by;not null;uniqueIndex:idx_categories_name_type_owner"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Category) TableName() string {
	return "categories"
}
