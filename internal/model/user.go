package model

import "time"

// User 住户/管理员引用表 — 对应 users
// 账号与会话由外部认证服务维护，此处仅保留关联与展示所需字段
type User struct {
	UserID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Email      string    `gorm:"type:varchar(255);not null"                     json:"email"`
	Role       string    `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // student | staff | admin
	RoomNumber string    `gorm:"type:varchar(20)"                               json:"room_number,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
