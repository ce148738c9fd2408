package model

import "time"

type TeacherRole string

const (
	RoleAdmin   TeacherRole = "admin"
	RoleTeacher TeacherRole = "teacher"
)

// swagger:model Teacher
type Teacher struct {
	BaseModel
	TeacherID  string        `gorm:"size:50;uniqueIndex;not null" json:"teacher_id"`
	Password   string        `gorm:"size:100;not null" json:"-"`
	Name       string        `gorm:"size:100;not null" json:"name"`
	Department string        `gorm:"size:100" json:"department"`
	Role       TeacherRole   `gorm:"size:20;default:'teacher'" json:"role"`
	Status     AccountStatus `gorm:"size:20;default:'active'" json:"status"`
	LastLogin  *time.Time    `json:"last_login"`
}

func (Teacher) TableName() string {
	return "teachers"
}
