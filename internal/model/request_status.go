package model

// ── 工单状态与类型枚举 ──
//
// 状态流转表是全系统唯一的合法性依据：
// 校验逻辑与前端按钮置灰共用同一份数据（详情接口返回 allowed_transitions）。

// 工单状态
const (
	StatusPending     = "pending"
	StatusReceived    = "received" // 历史遗留状态，保留枚举但无任何流入/流出边
	StatusApproved    = "approved"
	StatusAssigned    = "assigned"
	StatusDeclined    = "declined"
	StatusCompleted   = "completed"
	StatusRescheduled = "rescheduled"
	StatusOnGoing     = "ongoing"
)

// 工单类型
const (
	RequestTypeCleaning    = "cleaning"
	RequestTypeMaintenance = "maintenance"
	RequestTypeRepair      = "repair"
)

// AllStatuses 全部状态（统计快照桶的固定全集）
var AllStatuses = []string{
	StatusPending,
	StatusReceived,
	StatusApproved,
	StatusAssigned,
	StatusDeclined,
	StatusCompleted,
	StatusRescheduled,
	StatusOnGoing,
}

// statusTransitions 状态流转表
// declined / completed 为终态；received 已退役，无出边
var statusTransitions = map[string][]string{
	StatusPending:     {StatusApproved, StatusDeclined},
	StatusApproved:    {StatusAssigned, StatusDeclined},
	StatusAssigned:    {StatusOnGoing, StatusDeclined},
	StatusOnGoing:     {StatusCompleted, StatusRescheduled},
	StatusRescheduled: {StatusAssigned, StatusDeclined},
	StatusDeclined:    {},
	StatusCompleted:   {},
	StatusReceived:    {},
}

// IsValidStatus 判断字符串是否为合法状态值
func IsValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsValidRequestType 判断字符串是否为合法工单类型
func IsValidRequestType(t string) bool {
	switch t {
	case RequestTypeCleaning, RequestTypeMaintenance, RequestTypeRepair:
		return true
	}
	return false
}

// CanTransition 判断 from → to 是否在流转表中
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions 返回某状态的全部合法目标状态（副本）
func AllowedTransitions(from string) []string {
	next := statusTransitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}
