package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
)

// NotificationDispatcher 状态流转通知分发器
// Dispatch 尽力而为：通知写入失败只记日志，绝不向调用方抛错，
// 也不回滚已提交的状态变更
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, req *model.ServiceRequest, previousStatus string)
}

type notificationDispatcher struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationDispatcher 创建 NotificationDispatcher 实例
func NewNotificationDispatcher(repo *repository.Repository, logger *zap.Logger) NotificationDispatcher {
	return &notificationDispatcher{repo: repo, logger: logger}
}

// notificationTemplate 单个状态对应的通知模板
type notificationTemplate struct {
	Type    string
	Title   string
	Content string // %s 处填入工单类型
}

// notificationTemplates 状态 → 通知模板
// 未出现的状态（received / rescheduled / ongoing）不触发通知
var notificationTemplates = map[string]notificationTemplate{
	model.StatusApproved: {
		Type:    model.NotificationFormApproved,
		Title:   "Service Request Approved",
		Content: "Your %s request has been approved.",
	},
	model.StatusDeclined: {
		Type:    model.NotificationFormDeclined,
		Title:   "Service Request Declined",
		Content: "Your %s request has been declined.",
	},
	model.StatusAssigned: {
		Type:    model.NotificationFormAssigned,
		Title:   "Service Request Assigned",
		Content: "Your %s request has been assigned to staff.",
	},
	model.StatusCompleted: {
		Type:    model.NotificationFormCompleted,
		Title:   "Service Request Completed",
		Content: "Your %s request has been completed.",
	},
}

const notificationRelatedType = "service_request"

// Dispatch 针对一次"已落库的真实流转"发送通知
// previousStatus == 当前状态（无实际流转）或目标状态无模板时静默跳过，
// 保证每次真实流转至多产生一条通知，收件人恒为工单提交者
func (d *notificationDispatcher) Dispatch(ctx context.Context, req *model.ServiceRequest, previousStatus string) {
	if previousStatus == req.Status {
		return
	}

	tpl, ok := notificationTemplates[req.Status]
	if !ok {
		return
	}

	relatedType := notificationRelatedType
	relatedID := req.RequestID
	notification := &model.Notification{
		UserID:      req.RequesterID,
		Type:        tpl.Type,
		Title:       tpl.Title,
		Content:     fmt.Sprintf(tpl.Content, req.RequestType),
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}

	if err := d.repo.Notification.Create(ctx, notification); err != nil {
		d.logger.Error("通知写入失败",
			zap.String("request_id", req.RequestID),
			zap.String("type", tpl.Type),
			zap.Error(err),
		)
	}
}
