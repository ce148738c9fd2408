package model

import "time"

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountLocked   AccountStatus = "locked"
)

// swagger:model Student
type Student struct {
	BaseModel
	StudentID string        `gorm:"size:50;uniqueIndex;not null" json:"student_id"`
	Password  string        `gorm:"size:100;not null" json:"-"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	ClassName string        `gorm:"size:100" json:"class_name"`
	Major     string        `gorm:"size:100" json:"major"`
	Status    AccountStatus `gorm:"size:20;default:'active'" json:"status"`
	LastLogin *time.Time    `json:"last_login"`
}

func (Student) TableName() string {
	return "students"
}
