package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
)

// StaffRepository 员工目录数据访问接口
// 档案的增删改归员工目录子系统；本服务只读快照
// （工作量累加在 ServiceRequestRepository.Assign 的事务内完成）
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*model.StaffProfile, error)
	// ListByType 按技能类别列出员工（含各在岗状态，排序筛选由匹配逻辑负责）
	ListByType(ctx context.Context, typeOfStaff string) ([]model.StaffProfile, error)
}

// staffRepo StaffRepository 的 GORM 实现
type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.StaffProfile, error) {
	var staff model.StaffProfile
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListByType(ctx context.Context, typeOfStaff string) ([]model.StaffProfile, error) {
	var staffs []model.StaffProfile
	err := r.db.WithContext(ctx).
		Where("type_of_staff = ?", typeOfStaff).
		Order("staff_id ASC").
		Find(&staffs).Error
	return staffs, err
}
