package model

// swagger:model Chapter
type Chapter struct {
	BaseModel
	Language      Language `gorm:"size:20;index;not null" json:"language"`
	Name          string   `gorm:"size:100;not null" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	SortOrder     int      `gorm:"default:0" json:"sort_order"`
	QuestionCount int      `gorm:"default:0" json:"question_count"`
}

func (Chapter) TableName() string {
	return "chapters"
}
