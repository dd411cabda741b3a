package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Devign20164/DormieReact-sub000/internal/dto"
	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
	pkgerrors "github.com/Devign20164/DormieReact-sub000/pkg/errors"
)

// ── 工单模块业务错误 ──

var (
	ErrRequestNotFound        = errors.New("工单不存在")
	ErrStaffNotFound          = errors.New("员工不存在")
	ErrStaffUnavailable       = errors.New("当前没有可指派的员工")
	ErrStaffSkillMismatch     = errors.New("员工技能与工单类型不匹配")
	ErrStaffOnLeave           = errors.New("员工休假中，不可指派")
	ErrScheduledDateInvalid   = errors.New("预约时间格式无效")
	ErrConcurrentModification = errors.New("工单已被其他操作修改，请刷新后重试")
)

// RequestService 工单生命周期业务接口
type RequestService interface {
	Create(ctx context.Context, req *dto.CreateServiceRequestRequest, requesterID string) (*dto.ServiceRequestResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ServiceRequestResponse, error)
	List(ctx context.Context, req *dto.ServiceRequestListRequest) ([]dto.ServiceRequestResponse, int64, error)
	ListMine(ctx context.Context, requesterID string, page *dto.PaginationRequest) ([]dto.ServiceRequestResponse, int64, error)
	History(ctx context.Context, id string) ([]dto.StatusHistoryResponse, error)
	// Transition 状态流转：校验 → 事务提交（状态 + 历史）→ 通知 → 统计
	Transition(ctx context.Context, id string, req *dto.TransitionRequest, callerID string) (*dto.ServiceRequestResponse, error)
	// Assign 指派员工：staff_id 缺省时自动选取匹配结果首位
	Assign(ctx context.Context, id string, req *dto.AssignRequest, callerID string) (*dto.ServiceRequestResponse, error)
	// Candidates 返回完整候选列表（工作量升序），供人工指派
	Candidates(ctx context.Context, id string) ([]dto.CandidateStaffResponse, error)
	Stats(ctx context.Context) (*dto.RequestStatsResponse, error)
}

type requestService struct {
	repo       *repository.Repository
	dispatcher NotificationDispatcher
	stats      *StatsAggregator
	logger     *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, dispatcher NotificationDispatcher, stats *StatsAggregator, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, dispatcher: dispatcher, stats: stats, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *requestService) Create(ctx context.Context, req *dto.CreateServiceRequestRequest, requesterID string) (*dto.ServiceRequestResponse, error) {
	request := &model.ServiceRequest{
		RequesterID:    requesterID,
		RoomID:         req.RoomID,
		BuildingID:     req.BuildingID,
		RoomNumber:     req.RoomNumber,
		BuildingName:   req.BuildingName,
		RequestType:    req.RequestType,
		Status:         model.StatusPending,
		Description:    req.Description,
		SubmissionDate: time.Now(),
		FilePath:       req.FilePath,
	}
	request.CreatedBy = &requesterID
	request.UpdatedBy = &requesterID
	request.Version = 1

	if req.ScheduledDate != "" {
		scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			return nil, ErrScheduledDateInvalid
		}
		request.ScheduledDate = &scheduled
	}

	if err := s.repo.Request.Create(ctx, request); err != nil {
		s.logger.Error("创建工单失败", zap.Error(err))
		return nil, err
	}

	s.stats.ApplyCreate(ctx, request.Status)

	return s.toResponse(request), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *requestService) GetByID(ctx context.Context, id string) (*dto.ServiceRequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(request), nil
}

// ────────────────────── List / ListMine ──────────────────────

func (s *requestService) List(ctx context.Context, req *dto.ServiceRequestListRequest) ([]dto.ServiceRequestResponse, int64, error) {
	if req.Status != "" && !model.IsValidStatus(req.Status) {
		return nil, 0, ErrInvalidStatus
	}

	filters := &repository.ServiceRequestListFilters{
		Status:      req.Status,
		RequestType: req.RequestType,
		BuildingID:  req.BuildingID,
		RequesterID: req.RequesterID,
	}

	requests, total, err := s.repo.Request.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工单列表失败", zap.Error(err))
		return nil, 0, err
	}

	return s.toResponseList(requests), total, nil
}

func (s *requestService) ListMine(ctx context.Context, requesterID string, page *dto.PaginationRequest) ([]dto.ServiceRequestResponse, int64, error) {
	filters := &repository.ServiceRequestListFilters{RequesterID: requesterID}

	requests, total, err := s.repo.Request.List(ctx, filters, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的工单失败", zap.String("requester_id", requesterID), zap.Error(err))
		return nil, 0, err
	}

	return s.toResponseList(requests), total, nil
}

// ────────────────────── History ──────────────────────

func (s *requestService) History(ctx context.Context, id string) ([]dto.StatusHistoryResponse, error) {
	if _, err := s.loadRequest(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.repo.Request.ListHistory(ctx, id)
	if err != nil {
		s.logger.Error("查询状态历史失败", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.StatusHistoryResponse{
			Status:    e.Status,
			Notes:     e.Notes,
			ChangedAt: e.ChangedAt.Format(time.RFC3339),
		}
		if e.ChangedBy != nil {
			item.ChangedBy = *e.ChangedBy
		}
		result = append(result, item)
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// Transition — 状态流转编排
// ════════════════════════════════════════════════════════════
//
// 副作用顺序固定：先事务提交（状态 + 历史），后通知，最后统计。
// 通知失败不影响流转结果；统计 delta 在提交之后应用，守恒不破。
// 并发冲突（版本不匹配）原样拒绝，由调用方携带新读重试整个流转。

func (s *requestService) Transition(ctx context.Context, id string, req *dto.TransitionRequest, callerID string) (*dto.ServiceRequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	noop, err := ValidateTransition(request, req.Status, req.Notes)
	if err != nil {
		return nil, err
	}
	if noop {
		// 幂等：不追加历史、不发通知、统计不变
		return s.toResponse(request), nil
	}

	now := time.Now()
	previous := request.Status
	notes := strings.TrimSpace(req.Notes)

	request.Status = req.Status
	request.UpdatedBy = &callerID

	switch req.Status {
	case model.StatusDeclined:
		request.RejectReason = notes
		// 拒绝即解除指派：员工不能挂在 declined 工单上
		request.AssignedStaffID = nil
	case model.StatusOnGoing:
		request.ActualStartTime = &now
	case model.StatusCompleted:
		request.ActualEndTime = &now
	case model.StatusRescheduled:
		if req.ScheduledDate != "" {
			scheduled, parseErr := time.Parse(time.RFC3339, req.ScheduledDate)
			if parseErr != nil {
				return nil, ErrScheduledDateInvalid
			}
			request.ScheduledDate = &scheduled
		}
	}

	entry := &model.RequestStatusHistory{
		RequestID: request.RequestID,
		Status:    req.Status,
		Notes:     notes,
		ChangedAt: now,
		ChangedBy: &callerID,
	}

	if err := s.repo.Request.UpdateStatus(ctx, request, entry); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrConcurrentModification
		}
		s.logger.Error("工单状态流转失败",
			zap.String("request_id", id),
			zap.String("from", previous),
			zap.String("to", req.Status),
			zap.Error(err),
		)
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, request, previous)
	s.stats.ApplyTransition(ctx, previous, request.Status)

	return s.toResponse(request), nil
}

// ════════════════════════════════════════════════════════════
// Assign — 员工指派编排
// ════════════════════════════════════════════════════════════
//
// 指派是进入 assigned 状态的唯一通道。指定 staff_id 时同样要过
// 匹配规则（技能匹配、未休假）；缺省时取排序首位。
// 工单更新与员工工作量 +1 在同一数据库事务内完成。

func (s *requestService) Assign(ctx context.Context, id string, req *dto.AssignRequest, callerID string) (*dto.ServiceRequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(request.Status, model.StatusAssigned) {
		return nil, fmt.Errorf("%w: 无法从 %s 流转到 %s", ErrInvalidTransition, request.Status, model.StatusAssigned)
	}

	required := model.RequiredStaffType(request.RequestType)

	var chosen *model.StaffProfile
	if req.StaffID != nil {
		staff, err := s.repo.Staff.GetByID(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStaffNotFound
			}
			s.logger.Error("查询员工失败", zap.String("staff_id", *req.StaffID), zap.Error(err))
			return nil, err
		}
		if staff.TypeOfStaff != required {
			return nil, ErrStaffSkillMismatch
		}
		if staff.Status == model.StaffStatusOnLeave {
			return nil, ErrStaffOnLeave
		}
		chosen = staff
	} else {
		snapshot, err := s.repo.Staff.ListByType(ctx, required)
		if err != nil {
			s.logger.Error("查询候选员工失败", zap.Error(err))
			return nil, err
		}
		ranked := MatchStaff(request.RequestType, snapshot)
		if len(ranked) == 0 {
			return nil, ErrStaffUnavailable
		}
		chosen = &ranked[0]
	}

	now := time.Now()
	previous := request.Status

	request.Status = model.StatusAssigned
	request.AssignedStaffID = &chosen.StaffID
	request.UpdatedBy = &callerID

	entry := &model.RequestStatusHistory{
		RequestID: request.RequestID,
		Status:    model.StatusAssigned,
		ChangedAt: now,
		ChangedBy: &callerID,
	}

	if err := s.repo.Request.Assign(ctx, request, entry); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrConcurrentModification
		}
		s.logger.Error("指派员工失败",
			zap.String("request_id", id),
			zap.String("staff_id", chosen.StaffID),
			zap.Error(err),
		)
		return nil, err
	}
	request.AssignedStaff = chosen

	s.dispatcher.Dispatch(ctx, request, previous)
	s.stats.ApplyTransition(ctx, previous, request.Status)

	return s.toResponse(request), nil
}

// ────────────────────── Candidates ──────────────────────

func (s *requestService) Candidates(ctx context.Context, id string) ([]dto.CandidateStaffResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.repo.Staff.ListByType(ctx, model.RequiredStaffType(request.RequestType))
	if err != nil {
		s.logger.Error("查询候选员工失败", zap.Error(err))
		return nil, err
	}

	ranked := MatchStaff(request.RequestType, snapshot)
	result := make([]dto.CandidateStaffResponse, 0, len(ranked))
	for _, staff := range ranked {
		result = append(result, dto.CandidateStaffResponse{
			StaffID:       staff.StaffID,
			Name:          staff.Name,
			TypeOfStaff:   staff.TypeOfStaff,
			Status:        staff.Status,
			AssignedTasks: staff.AssignedTasks,
		})
	}
	return result, nil
}

// ────────────────────── Stats ──────────────────────

func (s *requestService) Stats(_ context.Context) (*dto.RequestStatsResponse, error) {
	counts := s.stats.Snapshot()

	var total int64
	for _, n := range counts {
		total += n
	}

	return &dto.RequestStatsResponse{Counts: counts, Total: total}, nil
}

// ── 内部辅助方法 ──

func (s *requestService) loadRequest(ctx context.Context, id string) (*model.ServiceRequest, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询工单失败", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}
	return request, nil
}

func (s *requestService) toResponse(req *model.ServiceRequest) *dto.ServiceRequestResponse {
	resp := &dto.ServiceRequestResponse{
		ID:                 req.RequestID,
		RequesterID:        req.RequesterID,
		RoomID:             req.RoomID,
		BuildingID:         req.BuildingID,
		RoomNumber:         req.RoomNumber,
		BuildingName:       req.BuildingName,
		RequestType:        req.RequestType,
		Status:             req.Status,
		AllowedTransitions: model.AllowedTransitions(req.Status),
		AssignedStaffID:    req.AssignedStaffID,
		Description:        req.Description,
		SubmissionDate:     req.SubmissionDate.Format(time.RFC3339),
		RejectReason:       req.RejectReason,
		FilePath:           req.FilePath,
		Version:            req.Version,
		CreatedAt:          req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          req.UpdatedAt.Format(time.RFC3339),
	}
	if req.Requester != nil {
		resp.RequesterName = req.Requester.Name
	}
	if req.AssignedStaff != nil {
		resp.AssignedStaffName = req.AssignedStaff.Name
	}
	if req.ScheduledDate != nil {
		resp.ScheduledDate = req.ScheduledDate.Format(time.RFC3339)
	}
	if req.ActualStartTime != nil {
		resp.ActualStartTime = req.ActualStartTime.Format(time.RFC3339)
	}
	if req.ActualEndTime != nil {
		resp.ActualEndTime = req.ActualEndTime.Format(time.RFC3339)
	}
	return resp
}

func (s *requestService) toResponseList(requests []model.ServiceRequest) []dto.ServiceRequestResponse {
	result := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *s.toResponse(&requests[i]))
	}
	return result
}

