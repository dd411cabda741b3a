package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Request      ServiceRequestRepository
	Staff        StaffRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Request:      NewServiceRequestRepo(db),
		Staff:        NewStaffRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
