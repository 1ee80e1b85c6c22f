package model

// Course 某一学年/学期的一次开课 — 对应表 course
// 归属关系：每门课恰好属于一个课程组（course_group_id 外键，级联删除）；
// 同一 code 的所有开课属于同一课程组
type Course struct {
	ID            int      `gorm:"primaryKey"         json:"id"`
	CourseGroupID int      `gorm:"not null;index"     json:"course_group_id"`
	Name          string   `gorm:"type:text;not null" json:"name"`
	Code          string   `gorm:"type:text;not null;index" json:"code"`
	CodeID        string   `gorm:"type:text;not null" json:"code_id"`
	Credit        float64  `gorm:"not null"           json:"credit"`
	Department    string   `gorm:"type:text;not null" json:"department"`
	CampusName    string   `gorm:"type:text;not null" json:"campus_name"`
	Teachers      string   `gorm:"type:text;not null" json:"teachers"`
	MaxStudent    int      `gorm:"not null"           json:"max_student"`
	WeekHour      int      `gorm:"not null"           json:"week_hour"`
	Year          int      `gorm:"not null"           json:"year"`
	Semester      int      `gorm:"not null"           json:"semester"`
	Reviews       []Review `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"review_list,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "course" }
