//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
	pkgerrors "github.com/Devign20164/DormieReact-sub000/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=dormie password=dormie_password dbname=dormie_test sslmode=disable TimeZone=Asia/Manila"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.StaffProfile{},
		&model.ServiceRequest{},
		&model.RequestStatusHistory{},
		&model.Notification{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (user *model.User, staff *model.StaffProfile, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	user = &model.User{
		Name:  "测试住户",
		Email: fmt.Sprintf("resident-%d@test.local", time.Now().UnixNano()),
		Role:  "student",
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	staff = &model.StaffProfile{
		Name:        "测试维修工",
		TypeOfStaff: model.StaffTypeMaintenance,
		Status:      model.StaffStatusAvailable,
	}
	if err := testDB.WithContext(ctx).Create(staff).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	cleanup = func() {
		testDB.WithContext(ctx).Where("requester_id = ?", user.UserID).Delete(&model.ServiceRequest{})
		testDB.WithContext(ctx).Where("user_id = ?", user.UserID).Delete(&model.Notification{})
		testDB.WithContext(ctx).Delete(staff)
		testDB.WithContext(ctx).Delete(user)
	}
	return user, staff, cleanup
}

func seedRequest(t *testing.T, repo repository.ServiceRequestRepository, requesterID, status string) *model.ServiceRequest {
	t.Helper()
	req := &model.ServiceRequest{
		RequesterID:    requesterID,
		RequestType:    model.RequestTypeRepair,
		Status:         status,
		Description:    "集成测试工单",
		SubmissionDate: time.Now(),
	}
	req.Version = 1
	if err := repo.Create(context.Background(), req); err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	return req
}

// ═══════════════════════════════════════════════════════════
// ServiceRequestRepository Tests
// ═══════════════════════════════════════════════════════════

func TestRequestRepo_CreateAndGet(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewServiceRequestRepo(testDB)
	req := seedRequest(t, repo, user.UserID, model.StatusPending)

	got, err := repo.GetByID(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Errorf("期望状态 pending，实际 %s", got.Status)
	}
	if got.Version != 1 {
		t.Errorf("初始版本应为 1，实际 %d", got.Version)
	}
	if got.Requester == nil || got.Requester.UserID != user.UserID {
		t.Error("应预加载提交者关联")
	}
}

func TestRequestRepo_UpdateStatus_AppendsHistory(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewServiceRequestRepo(testDB)
	req := seedRequest(t, repo, user.UserID, model.StatusPending)

	req.Status = model.StatusApproved
	entry := &model.RequestStatusHistory{
		RequestID: req.RequestID,
		Status:    model.StatusApproved,
		ChangedAt: time.Now(),
	}
	if err := repo.UpdateStatus(ctx, req, entry); err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if req.Version != 2 {
		t.Errorf("更新后版本应为 2，实际 %d", req.Version)
	}

	history, err := repo.ListHistory(ctx, req.RequestID)
	if err != nil {
		t.Fatalf("ListHistory 应成功: %v", err)
	}
	if len(history) != 1 || history[0].Status != model.StatusApproved {
		t.Errorf("历史应包含 1 条 approved 记录，实际 %v", history)
	}
}

func TestRequestRepo_UpdateStatus_StaleVersionConflicts(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewServiceRequestRepo(testDB)
	req := seedRequest(t, repo, user.UserID, model.StatusPending)

	// 两个调用方读到同一版本
	first, _ := repo.GetByID(ctx, req.RequestID)
	second, _ := repo.GetByID(ctx, req.RequestID)

	first.Status = model.StatusApproved
	if err := repo.UpdateStatus(ctx, first, &model.RequestStatusHistory{
		RequestID: first.RequestID, Status: model.StatusApproved, ChangedAt: time.Now(),
	}); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	second.Status = model.StatusDeclined
	err := repo.UpdateStatus(ctx, second, &model.RequestStatusHistory{
		RequestID: second.RequestID, Status: model.StatusDeclined, ChangedAt: time.Now(),
	})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("旧版本更新期望 ErrOptimisticLock，实际: %v", err)
	}

	// 冲突方的历史不应落库
	history, _ := repo.ListHistory(ctx, req.RequestID)
	if len(history) != 1 {
		t.Errorf("冲突的历史不应落库，实际 %d 条", len(history))
	}
}

func TestRequestRepo_Assign_IncrementsWorkload(t *testing.T) {
	user, staff, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewServiceRequestRepo(testDB)
	req := seedRequest(t, repo, user.UserID, model.StatusApproved)

	req.Status = model.StatusAssigned
	req.AssignedStaffID = &staff.StaffID
	entry := &model.RequestStatusHistory{
		RequestID: req.RequestID,
		Status:    model.StatusAssigned,
		ChangedAt: time.Now(),
	}
	if err := repo.Assign(ctx, req, entry); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}

	staffRepo := repository.NewStaffRepo(testDB)
	got, err := staffRepo.GetByID(ctx, staff.StaffID)
	if err != nil {
		t.Fatalf("查询员工应成功: %v", err)
	}
	if got.AssignedTasks != 1 {
		t.Errorf("指派后工作量应为 1，实际 %d", got.AssignedTasks)
	}
}

func TestRequestRepo_Assign_UnknownStaffRollsBack(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewServiceRequestRepo(testDB)
	req := seedRequest(t, repo, user.UserID, model.StatusApproved)

	missing := "00000000-0000-0000-0000-000000000000"
	req.Status = model.StatusAssigned
	req.AssignedStaffID = &missing
	err := repo.Assign(ctx, req, &model.RequestStatusHistory{
		RequestID: req.RequestID, Status: model.StatusAssigned, ChangedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("指派不存在的员工应失败")
	}

	// 整个事务回滚：工单状态与版本保持不变
	got, _ := repo.GetByID(ctx, req.RequestID)
	if got.Status != model.StatusApproved || got.Version != 1 {
		t.Errorf("失败的指派应整体回滚，实际 status=%s version=%d", got.Status, got.Version)
	}
}

func TestRequestRepo_CountByStatus(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewServiceRequestRepo(testDB)
	seedRequest(t, repo, user.UserID, model.StatusPending)
	seedRequest(t, repo, user.UserID, model.StatusPending)
	seedRequest(t, repo, user.UserID, model.StatusCompleted)

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus 应成功: %v", err)
	}
	if counts[model.StatusPending] < 2 {
		t.Errorf("pending 计数至少为 2，实际 %d", counts[model.StatusPending])
	}
	if counts[model.StatusCompleted] < 1 {
		t.Errorf("completed 计数至少为 1，实际 %d", counts[model.StatusCompleted])
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationRepository Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationRepo_MarkReadScopedToOwner(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewNotificationRepo(testDB)

	relatedType := "service_request"
	n := &model.Notification{
		UserID:      user.UserID,
		Type:        model.NotificationFormApproved,
		Title:       "Service Request Approved",
		Content:     "Your repair request has been approved.",
		RelatedType: &relatedType,
	}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}

	// 非本人标记不命中
	err := repo.MarkRead(ctx, n.NotificationID, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("非本人标记期望 ErrRecordNotFound，实际: %v", err)
	}

	if err := repo.MarkRead(ctx, n.NotificationID, user.UserID); err != nil {
		t.Fatalf("本人标记应成功: %v", err)
	}

	count, err := repo.CountUnread(ctx, user.UserID)
	if err != nil {
		t.Fatalf("CountUnread 应成功: %v", err)
	}
	if count != 0 {
		t.Errorf("标记后未读数应为 0，实际 %d", count)
	}
}
