package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
	pkgerrors "github.com/Devign20164/DormieReact-sub000/pkg/errors"
)

// ── Mock ServiceRequestRepository ──

type mockRequestRepo struct {
	requests  map[string]*model.ServiceRequest
	histories []model.RequestStatusHistory
	staffRepo *mockStaffRepo // Assign 事务中的工作量累加

	updateErr error // 注入 UpdateStatus / Assign 错误
}

func newMockRequestRepo(staffRepo *mockStaffRepo) *mockRequestRepo {
	return &mockRequestRepo{
		requests:  make(map[string]*model.ServiceRequest),
		staffRepo: staffRepo,
	}
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.ServiceRequest) error {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%03d", len(m.requests)+1)
	}
	clone := *req
	m.requests[req.RequestID] = &clone
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*model.ServiceRequest, error) {
	if r, ok := m.requests[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) List(_ context.Context, filters *repository.ServiceRequestListFilters, offset, limit int) ([]model.ServiceRequest, int64, error) {
	var all []model.ServiceRequest
	for _, r := range m.requests {
		if filters != nil {
			if filters.Status != "" && r.Status != filters.Status {
				continue
			}
			if filters.RequestType != "" && r.RequestType != filters.RequestType {
				continue
			}
			if filters.RequesterID != "" && r.RequesterID != filters.RequesterID {
				continue
			}
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RequestID < all[j].RequestID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// applyVersioned 模拟版本校验更新：版本不匹配返回 ErrOptimisticLock
func (m *mockRequestRepo) applyVersioned(req *model.ServiceRequest) error {
	stored, ok := m.requests[req.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	clone := *req
	clone.Version = req.Version + 1
	m.requests[req.RequestID] = &clone
	req.Version = clone.Version
	return nil
}

func (m *mockRequestRepo) UpdateStatus(_ context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if err := m.applyVersioned(req); err != nil {
		return err
	}
	m.histories = append(m.histories, *entry)
	return nil
}

func (m *mockRequestRepo) Assign(_ context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if err := m.applyVersioned(req); err != nil {
		return err
	}
	if req.AssignedStaffID != nil {
		if staff, ok := m.staffRepo.staffs[*req.AssignedStaffID]; ok {
			staff.AssignedTasks++
		}
	}
	m.histories = append(m.histories, *entry)
	return nil
}

func (m *mockRequestRepo) ListHistory(_ context.Context, requestID string) ([]model.RequestStatusHistory, error) {
	var result []model.RequestStatusHistory
	for _, e := range m.histories {
		if e.RequestID == requestID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockRequestRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, r := range m.requests {
		counts[r.Status]++
	}
	return counts, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staffs map[string]*model.StaffProfile
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staffs: make(map[string]*model.StaffProfile)}
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.StaffProfile, error) {
	if s, ok := m.staffs[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListByType(_ context.Context, typeOfStaff string) ([]model.StaffProfile, error) {
	var result []model.StaffProfile
	for _, s := range m.staffs {
		if s.TypeOfStaff == typeOfStaff {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StaffID < result[j].StaffID })
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification

	createErr error // 注入 Create 错误，验证通知失败不阻断流转
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("ntf-%03d", len(m.notifications)+1)
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		all = append(all, n)
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, notificationID, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].NotificationID == notificationID && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}
