package dto

import "github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"

// NewCourseRequest 创建开课请求
// code 首次出现时隐式创建课程组
type NewCourseRequest struct {
	Name       string  `json:"name"        binding:"required"`
	Code       string  `json:"code"        binding:"required"`
	CodeID     string  `json:"code_id"     binding:"required"`
	Credit     float64 `json:"credit"`
	Department string  `json:"department"  binding:"required"`
	CampusName string  `json:"campus_name"`
	Teachers   string  `json:"teachers"    binding:"required"`
	MaxStudent int     `json:"max_student"`
	WeekHour   int     `json:"week_hour"`
	Year       int     `json:"year"        binding:"required"`
	Semester   int     `json:"semester"    binding:"required"`
}

// CourseResponse 单个开课（含评价列表）
type CourseResponse struct {
	ID            int              `json:"id"`
	CourseGroupID int              `json:"course_group_id"`
	Name          string           `json:"name"`
	Code          string           `json:"code"`
	CodeID        string           `json:"code_id"`
	Credit        float64          `json:"credit"`
	Department    string           `json:"department"`
	CampusName    string           `json:"campus_name"`
	Teachers      string           `json:"teachers"`
	MaxStudent    int              `json:"max_student"`
	WeekHour      int              `json:"week_hour"`
	Year          int              `json:"year"`
	Semester      int              `json:"semester"`
	ReviewList    []ReviewResponse `json:"review_list"`
}

// GroupResponse 课程组详情（含开课与各自评价）
type GroupResponse struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Code       string           `json:"code"`
	Department string           `json:"department"`
	CampusName string           `json:"campus_name"`
	CourseList []CourseResponse `json:"course_list"`
}

// NewCourseModel 由请求构造开课模型（课程组由服务层决定）
func (r *NewCourseRequest) NewCourseModel(groupID int) *model.Course {
	return &model.Course{
		CourseGroupID: groupID,
		Name:          r.Name,
		Code:          r.Code,
		CodeID:        r.CodeID,
		Credit:        r.Credit,
		Department:    r.Department,
		CampusName:    r.CampusName,
		Teachers:      r.Teachers,
		MaxStudent:    r.MaxStudent,
		WeekHour:      r.WeekHour,
		Year:          r.Year,
		Semester:      r.Semester,
	}
}
