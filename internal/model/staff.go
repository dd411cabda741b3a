package model

// ── 员工技能与在岗状态枚举 ──

// 员工技能类别
const (
	StaffTypeCleaner     = "cleaner"
	StaffTypeMaintenance = "maintenance"
)

// 员工在岗状态
const (
	StaffStatusAvailable = "available"
	StaffStatusBusy      = "busy"
	StaffStatusAway      = "away"
	StaffStatusOnLeave   = "on_leave"
)

// RequiredStaffType 工单类型 → 所需技能类别
// repair 与 maintenance 均由维修工处理，cleaning 由保洁处理
func RequiredStaffType(requestType string) string {
	if requestType == RequestTypeCleaning {
		return StaffTypeCleaner
	}
	return StaffTypeMaintenance
}

// StaffProfile 员工档案表 — 对应 staff_profiles
// 档案维护归员工目录子系统，此处只读 + 工作量计数累加
type StaffProfile struct {
	StaffID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	TypeOfStaff   string `gorm:"type:varchar(20);not null"                      json:"type_of_staff"` // cleaner | maintenance
	Status        string `gorm:"type:varchar(20);not null;default:'available'"  json:"status"`        // available | busy | away | on_leave
	AssignedTasks int    `gorm:"not null;default:0"                             json:"assigned_tasks"`
	BaseModel
}

// TableName 指定表名
func (StaffProfile) TableName() string { return "staff_profiles" }
