package handler

import "github.com/Devign20164/DormieReact-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Request      *RequestHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Request:      NewRequestHandler(svc.Request),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
