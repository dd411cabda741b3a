package model

import "time"

// ServiceRequest 服务工单表 — 对应 service_requests
type ServiceRequest struct {
	RequestID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	RequesterID     string     `gorm:"type:uuid;not null"                             json:"requester_id"`
	RoomID          *string    `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	BuildingID      *string    `gorm:"type:uuid"                                      json:"building_id,omitempty"`
	RoomNumber      string     `gorm:"type:varchar(20)"                               json:"room_number,omitempty"`   // 冗余展示字段，非权威
	BuildingName    string     `gorm:"type:varchar(100)"                              json:"building_name,omitempty"` // 冗余展示字段，非权威
	RequestType     string     `gorm:"type:varchar(20);not null"                      json:"request_type"` // cleaning | maintenance | repair，创建后不可变
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	AssignedStaffID *string    `gorm:"type:uuid"                                      json:"assigned_staff_id,omitempty"`
	Description     string     `gorm:"type:text"                                      json:"description,omitempty"`
	SubmissionDate  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submission_date"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	RejectReason    string     `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	FilePath        string     `gorm:"type:varchar(500)"                              json:"file_path,omitempty"` // 附件引用，存储由外部文件服务负责
	VersionedModel

	// 关联
	Requester     *User         `gorm:"foreignKey:RequesterID;references:UserID"       json:"requester,omitempty"`
	AssignedStaff *StaffProfile `gorm:"foreignKey:AssignedStaffID;references:StaffID"  json:"assigned_staff,omitempty"`
}

// TableName 指定表名
func (ServiceRequest) TableName() string { return "service_requests" }

// RequestStatusHistory 工单状态历史表 — 对应 request_status_histories（仅追加）
type RequestStatusHistory struct {
	HistoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	RequestID string    `gorm:"type:uuid;not null"                             json:"request_id"`
	Status    string    `gorm:"type:varchar(20);not null"                      json:"status"`
	Notes     string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	ChangedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"changed_at"`
	ChangedBy *string   `gorm:"type:uuid"                                      json:"changed_by,omitempty"`
}

// TableName 指定表名
func (RequestStatusHistory) TableName() string { return "request_status_histories" }
