package dto

// ── 通知模块请求 ──

// NotificationListRequest 通知列表筛选
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only" binding:"omitempty"`
}

// ── 通知模块响应 ──

// NotificationResponse 通知条目
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	IsRead      bool    `json:"is_read"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
