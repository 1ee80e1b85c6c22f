package dto

// UserInfo 外部认证服务返回的用户身份
type UserInfo struct {
	ID      int  `json:"id"`
	IsAdmin bool `json:"is_admin"`
}
