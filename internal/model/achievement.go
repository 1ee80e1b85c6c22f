package model

import "time"

// Achievement 成就定义 — 对应表 achievement
type Achievement struct {
	ID     int    `gorm:"primaryKey"         json:"id"`
	Name   string `gorm:"type:text;not null" json:"name"`
	Domain string `gorm:"type:text"          json:"domain"`
}

// TableName 指定表名
func (Achievement) TableName() string { return "achievement" }

// UserAchievement 用户已获成就 — 对应表 user_achievement，联合主键
type UserAchievement struct {
	UserID        int       `gorm:"primaryKey"  json:"user_id"`
	AchievementID int       `gorm:"primaryKey"  json:"achievement_id"`
	ObtainDate    time.Time `gorm:"not null"    json:"obtain_date"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"-"`
}

// TableName 指定表名
func (UserAchievement) TableName() string { return "user_achievement" }
