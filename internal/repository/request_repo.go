package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	pkgerrors "github.com/Devign20164/DormieReact-sub000/pkg/errors"
)

// ServiceRequestListFilters 工单列表筛选条件
type ServiceRequestListFilters struct {
	Status      string
	RequestType string
	BuildingID  string
	RequesterID string
}

// ServiceRequestRepository 工单数据访问接口
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *model.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*model.ServiceRequest, error)
	List(ctx context.Context, filters *ServiceRequestListFilters, offset, limit int) ([]model.ServiceRequest, int64, error)
	// UpdateStatus 在单个事务中完成版本校验更新与历史追加；
	// 版本不匹配返回 pkg/errors.ErrOptimisticLock
	UpdateStatus(ctx context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error
	// Assign 在单个事务中完成版本校验更新、员工工作量 +1 与历史追加
	Assign(ctx context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error
	ListHistory(ctx context.Context, requestID string) ([]model.RequestStatusHistory, error)
	// CountByStatus 按状态分组计数（统计快照全量重算路径）
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// requestRepo ServiceRequestRepository 的 GORM 实现
type requestRepo struct {
	db *gorm.DB
}

// NewServiceRequestRepo 创建 ServiceRequestRepository 实例
func NewServiceRequestRepo(db *gorm.DB) ServiceRequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, req *model.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	var req model.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("AssignedStaff").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepo) List(ctx context.Context, filters *ServiceRequestListFilters, offset, limit int) ([]model.ServiceRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ServiceRequest{})

	if filters != nil {
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		}
		if filters.RequestType != "" {
			query = query.Where("request_type = ?", filters.RequestType)
		}
		if filters.BuildingID != "" {
			query = query.Where("building_id = ?", filters.BuildingID)
		}
		if filters.RequesterID != "" {
			query = query.Where("requester_id = ?", filters.RequesterID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.ServiceRequest
	err := query.
		Preload("Requester").
		Preload("AssignedStaff").
		Order("submission_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

// updateWithVersion 版本校验更新（调用方须处于事务内）
// 以内存中的 Version 为条件乐观锁更新，未命中任何行视为并发冲突
func updateWithVersion(tx *gorm.DB, req *model.ServiceRequest) error {
	prevVersion := req.Version

	res := tx.Model(&model.ServiceRequest{}).
		Where("request_id = ? AND version = ?", req.RequestID, prevVersion).
		Updates(map[string]interface{}{
			"status":            req.Status,
			"assigned_staff_id": req.AssignedStaffID,
			"scheduled_date":    req.ScheduledDate,
			"actual_start_time": req.ActualStartTime,
			"actual_end_time":   req.ActualEndTime,
			"reject_reason":     req.RejectReason,
			"updated_at":        time.Now(),
			"updated_by":        req.UpdatedBy,
			"version":           prevVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}

	req.Version = prevVersion + 1
	return nil
}

func (r *requestRepo) UpdateStatus(ctx context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, req); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *requestRepo) Assign(ctx context.Context, req *model.ServiceRequest, entry *model.RequestStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, req); err != nil {
			return err
		}
		// 工作量累加与指派落在同一事务，避免两者只成功其一
		res := tx.Model(&model.StaffProfile{}).
			Where("staff_id = ?", req.AssignedStaffID).
			UpdateColumn("assigned_tasks", gorm.Expr("assigned_tasks + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(entry).Error
	})
}

func (r *requestRepo) ListHistory(ctx context.Context, requestID string) ([]model.RequestStatusHistory, error) {
	var entries []model.RequestStatusHistory
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("changed_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *requestRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.ServiceRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
