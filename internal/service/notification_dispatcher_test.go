package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
)

// ── 通知分发器测试 ──

func setupTestDispatcher() (NotificationDispatcher, *mockNotificationRepo) {
	staffRepo := newMockStaffRepo()
	notifRepo := newMockNotificationRepo()
	repo := &repository.Repository{
		Request:      newMockRequestRepo(staffRepo),
		Staff:        staffRepo,
		Notification: notifRepo,
	}
	return NewNotificationDispatcher(repo, zap.NewNop()), notifRepo
}

func dispatchRequest(status string) *model.ServiceRequest {
	return &model.ServiceRequest{
		RequestID:   "req-001",
		RequesterID: "user-001",
		RequestType: model.RequestTypeCleaning,
		Status:      status,
	}
}

func TestDispatcher_MappedStatusCreatesOne(t *testing.T) {
	d, notifRepo := setupTestDispatcher()

	d.Dispatch(context.Background(), dispatchRequest(model.StatusApproved), model.StatusPending)

	if len(notifRepo.notifications) != 1 {
		t.Fatalf("期望恰好 1 条通知，实际 %d", len(notifRepo.notifications))
	}
	n := notifRepo.notifications[0]
	if n.Content != "Your cleaning request has been approved." {
		t.Errorf("通知内容不符: %s", n.Content)
	}
	if n.RelatedType == nil || *n.RelatedType != "service_request" {
		t.Error("通知应关联 service_request")
	}
	if n.RelatedID == nil || *n.RelatedID != "req-001" {
		t.Error("通知应关联工单 ID")
	}
}

func TestDispatcher_UnmappedStatusIsSilent(t *testing.T) {
	d, notifRepo := setupTestDispatcher()

	d.Dispatch(context.Background(), dispatchRequest(model.StatusOnGoing), model.StatusAssigned)
	d.Dispatch(context.Background(), dispatchRequest(model.StatusRescheduled), model.StatusOnGoing)

	if len(notifRepo.notifications) != 0 {
		t.Errorf("无模板状态不应产生通知，实际 %d 条", len(notifRepo.notifications))
	}
}

func TestDispatcher_SameStatusIsSilent(t *testing.T) {
	d, notifRepo := setupTestDispatcher()

	d.Dispatch(context.Background(), dispatchRequest(model.StatusApproved), model.StatusApproved)

	if len(notifRepo.notifications) != 0 {
		t.Errorf("无实际流转不应产生通知，实际 %d 条", len(notifRepo.notifications))
	}
}
