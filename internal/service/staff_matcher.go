package service

import (
	"sort"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
)

// MatchStaff 为工单挑选候选员工（纯函数）
//
// 1. 工单类型映射到所需技能（repair/maintenance → maintenance，cleaning → cleaner）
// 2. 过滤：技能匹配且未休假（on_leave 一律排除，busy/away 仍可作为候选）
// 3. 排序：工作量（assigned_tasks）升序，持平时按 staff_id 升序
//
// 排序对相同输入完全确定，自动指派取首位，人工指派展示完整列表。
// 返回空切片表示当前无可指派员工。
func MatchStaff(requestType string, snapshot []model.StaffProfile) []model.StaffProfile {
	required := model.RequiredStaffType(requestType)

	eligible := make([]model.StaffProfile, 0, len(snapshot))
	for _, staff := range snapshot {
		if staff.TypeOfStaff != required {
			continue
		}
		if staff.Status == model.StaffStatusOnLeave {
			continue
		}
		eligible = append(eligible, staff)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].AssignedTasks != eligible[j].AssignedTasks {
			return eligible[i].AssignedTasks < eligible[j].AssignedTasks
		}
		return eligible[i].StaffID < eligible[j].StaffID
	})

	return eligible
}
