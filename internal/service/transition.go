package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
)

// ── 状态流转业务错误 ──

var (
	ErrInvalidStatus     = errors.New("无效的工单状态")
	ErrInvalidTransition = errors.New("非法的状态流转")
	ErrNotesRequired     = errors.New("拒绝工单必须填写原因")
	ErrStaffNotAttached  = errors.New("工单尚未指派员工，不能进入 assigned 状态")
)

// ValidateTransition 校验一次状态流转
//
// 返回值 noop=true 表示目标状态与当前状态相同：幂等处理，
// 调用方不得追加历史、不得触发通知、不得改动统计。
// 校验全部发生在持久化之前，任何错误都不产生写入。
//
// 规则：
//   - 目标状态必须在枚举内
//   - 流转必须命中 model 层的流转表（错误信息携带 from/to，供前端提示）
//   - 流向 declined 必须携带非空 notes（拒绝原因）
//   - 流向 assigned 仅允许走指派通道（assigned_staff_id 已落值），
//     防止出现"已指派"但无人负责的工单
func ValidateTransition(req *model.ServiceRequest, desired, notes string) (noop bool, err error) {
	if !model.IsValidStatus(desired) {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, desired)
	}

	if desired == req.Status {
		return true, nil
	}

	if !model.CanTransition(req.Status, desired) {
		return false, fmt.Errorf("%w: 无法从 %s 流转到 %s", ErrInvalidTransition, req.Status, desired)
	}

	if desired == model.StatusDeclined && strings.TrimSpace(notes) == "" {
		return false, ErrNotesRequired
	}

	if desired == model.StatusAssigned && req.AssignedStaffID == nil {
		return false, ErrStaffNotAttached
	}

	return false, nil
}
