package model

// CourseGroup 课程组 — 同一课程代码跨学年/学期的全部开课
// 对应表 course_group；删除课程组时级联删除其下课程
type CourseGroup struct {
	ID         int      `gorm:"primaryKey"                json:"id"`
	Name       string   `gorm:"type:text;not null"        json:"name"`
	Code       string   `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Department string   `gorm:"type:text;not null"        json:"department"`
	CampusName string   `gorm:"type:text;not null"        json:"campus_name"`
	Courses    []Course `gorm:"foreignKey:CourseGroupID;constraint:OnDelete:CASCADE" json:"course_list"`
}

// TableName 指定表名
func (CourseGroup) TableName() string { return "course_group" }
