package models

type Book struct {
	BaseModel
	Title  string `gorm:"not null"`
	Author string `gorm:"not null"`
	Slug   string `gorm:"uniqueIndex"`

	// Relations
	Reviews []Review `gorm:"foreignKey:BookID"`
}
