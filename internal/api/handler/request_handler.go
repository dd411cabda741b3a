package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Devign20164/DormieReact-sub000/internal/dto"
	"github.com/Devign20164/DormieReact-sub000/internal/service"
	"github.com/Devign20164/DormieReact-sub000/pkg/response"
)

// RequestHandler 工单模块 HTTP 处理器
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create 创建工单
// POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrScheduledDateInvalid) {
			response.BadRequest(c, 30006, "预约时间格式无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 工单详情
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	result, err := h.requestSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			response.NotFound(c, 30001, "工单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// List 工单列表（管理员 / 员工）
// GET /api/v1/requests
func (h *RequestHandler) List(c *gin.Context) {
	var req dto.ServiceRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.requestSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.BadRequest(c, 30002, "无效的工单状态")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListMine 我的工单
// GET /api/v1/requests/my
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.requestSvc.ListMine(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// History 状态历史（时间升序）
// GET /api/v1/requests/:id/history
func (h *RequestHandler) History(c *gin.Context) {
	result, err := h.requestSvc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			response.NotFound(c, 30001, "工单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Transition 状态流转（管理员）
// PUT /api/v1/requests/:id/status
func (h *RequestHandler) Transition(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.Transition(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign 指派员工（管理员）
// PUT /api/v1/requests/:id/assign
func (h *RequestHandler) Assign(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.Assign(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.OK(c, result)
}

// Candidates 候选员工列表（管理员）
// GET /api/v1/requests/:id/candidates
func (h *RequestHandler) Candidates(c *gin.Context) {
	result, err := h.requestSvc.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			response.NotFound(c, 30001, "工单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Stats 各状态工单计数
// GET /api/v1/requests/stats
func (h *RequestHandler) Stats(c *gin.Context) {
	result, err := h.requestSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// writeTransitionError 统一映射流转 / 指派的业务错误
func (h *RequestHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 30001, "工单不存在")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 30002, "无效的工单状态")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 30003, err.Error())
	case errors.Is(err, service.ErrNotesRequired):
		response.BadRequest(c, 30004, "拒绝工单必须填写原因")
	case errors.Is(err, service.ErrStaffNotAttached):
		response.BadRequest(c, 30005, "进入 assigned 状态必须通过指派接口")
	case errors.Is(err, service.ErrScheduledDateInvalid):
		response.BadRequest(c, 30006, "预约时间格式无效")
	case errors.Is(err, service.ErrConcurrentModification):
		response.Conflict(c, 30007, "工单已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 31001, "员工不存在")
	case errors.Is(err, service.ErrStaffSkillMismatch):
		response.BadRequest(c, 31002, "员工技能与工单类型不匹配")
	case errors.Is(err, service.ErrStaffOnLeave):
		response.BadRequest(c, 31003, "员工休假中，不可指派")
	case errors.Is(err, service.ErrStaffUnavailable):
		response.BadRequest(c, 31004, "当前没有可指派的员工")
	default:
		response.InternalError(c)
	}
}
