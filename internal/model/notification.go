package model

// 通知类别枚举（创建后不可变更）
const (
	NotificationDirectMessage     = "direct_message"
	NotificationConnectionRequest = "connection_request"
	NotificationOpportunityMatch  = "opportunity_match"
	NotificationApplicationStatus = "application_status_change"
	NotificationEventReminder     = "event_reminder"
	NotificationSystem            = "system"
)

// ValidNotificationCategory 校验通知类别是否合法
func ValidNotificationCategory(category string) bool {
	switch category {
	case NotificationDirectMessage,
		NotificationConnectionRequest,
		NotificationOpportunityMatch,
		NotificationApplicationStatus,
		NotificationEventReminder,
		NotificationSystem:
		return true
	}
	return false
}

// Notification 通知表 — 对应 notifications
// 持久化记录是唯一可信来源；实时推送仅是降低延迟的尽力而为通道。
// is_read 只允许 false→true 单向流转；删除为硬删除。
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index:idx_notif_user_read"   json:"user_id"`
	Category       string  `gorm:"type:varchar(40);not null"                      json:"category"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Body           string  `gorm:"type:text;not null"                             json:"body"`
	Payload        *string `gorm:"type:text"                                      json:"payload,omitempty"` // JSON 文本，供客户端深链
	ActionURL      *string `gorm:"type:varchar(500)"                              json:"action_url,omitempty"`
	IsRead         bool    `gorm:"not null;default:false;index:idx_notif_user_read" json:"is_read"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
