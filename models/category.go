package models

type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`

	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName overrides the table name
func (Category) TableName() string {
	return "categories"
}
