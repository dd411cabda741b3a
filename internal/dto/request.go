package dto

// ── 工单模块请求 ──

// CreateServiceRequestRequest 创建工单
type CreateServiceRequestRequest struct {
	RequestType   string  `json:"request_type"   binding:"required,oneof=cleaning maintenance repair"`
	RoomID        *string `json:"room_id"        binding:"omitempty,uuid"`
	BuildingID    *string `json:"building_id"    binding:"omitempty,uuid"`
	RoomNumber    string  `json:"room_number"    binding:"omitempty,max=20"`
	BuildingName  string  `json:"building_name"  binding:"omitempty,max=100"`
	Description   string  `json:"description"    binding:"omitempty,max=2000"`
	ScheduledDate string  `json:"scheduled_date" binding:"omitempty"` // ISO-8601
	FilePath      string  `json:"file_path"      binding:"omitempty,max=500"`
}

// TransitionRequest 状态流转
type TransitionRequest struct {
	Status        string `json:"status" binding:"required"`
	Notes         string `json:"notes"  binding:"omitempty,max=500"`
	ScheduledDate string `json:"scheduled_date" binding:"omitempty"` // rescheduled 时的新预约时间
}

// AssignRequest 指派员工；staff_id 缺省时自动选取排序首位候选人
type AssignRequest struct {
	StaffID *string `json:"staff_id" binding:"omitempty,uuid"`
}

// ServiceRequestListRequest 工单列表筛选
type ServiceRequestListRequest struct {
	PaginationRequest
	Status      string `form:"status"       binding:"omitempty"`
	RequestType string `form:"request_type" binding:"omitempty,oneof=cleaning maintenance repair"`
	BuildingID  string `form:"building_id"  binding:"omitempty,uuid"`
	RequesterID string `form:"requester_id" binding:"omitempty,uuid"`
}

// ── 工单模块响应 ──

// ServiceRequestResponse 工单详情
type ServiceRequestResponse struct {
	ID                 string   `json:"id"`
	RequesterID        string   `json:"requester_id"`
	RequesterName      string   `json:"requester_name,omitempty"`
	RoomID             *string  `json:"room_id,omitempty"`
	BuildingID         *string  `json:"building_id,omitempty"`
	RoomNumber         string   `json:"room_number,omitempty"`
	BuildingName       string   `json:"building_name,omitempty"`
	RequestType        string   `json:"request_type"`
	Status             string   `json:"status"`
	AllowedTransitions []string `json:"allowed_transitions"`
	AssignedStaffID    *string  `json:"assigned_staff_id,omitempty"`
	AssignedStaffName  string   `json:"assigned_staff_name,omitempty"`
	Description        string   `json:"description,omitempty"`
	SubmissionDate     string   `json:"submission_date"`
	ScheduledDate      string   `json:"scheduled_date,omitempty"`
	ActualStartTime    string   `json:"actual_start_time,omitempty"`
	ActualEndTime      string   `json:"actual_end_time,omitempty"`
	RejectReason       string   `json:"reject_reason,omitempty"`
	FilePath           string   `json:"file_path,omitempty"`
	Version            int      `json:"version"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// StatusHistoryResponse 状态历史条目
type StatusHistoryResponse struct {
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	ChangedAt string `json:"changed_at"`
	ChangedBy string `json:"changed_by,omitempty"`
}

// CandidateStaffResponse 候选员工（按工作量升序）
type CandidateStaffResponse struct {
	StaffID       string `json:"staff_id"`
	Name          string `json:"name"`
	TypeOfStaff   string `json:"type_of_staff"`
	Status        string `json:"status"`
	AssignedTasks int    `json:"assigned_tasks"`
}

// RequestStatsResponse 各状态工单计数快照
type RequestStatsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}
