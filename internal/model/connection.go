package model

// 人脉请求状态枚举
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// ConnectionRequest 人脉请求表 — 对应 connection_requests
// (requester_id, recipient_id) 唯一，避免重复请求
type ConnectionRequest struct {
	RequestID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	RequesterID string  `gorm:"type:uuid;not null;uniqueIndex:uq_conn_pair"    json:"requester_id"`
	RecipientID string  `gorm:"type:uuid;not null;uniqueIndex:uq_conn_pair"    json:"recipient_id"`
	Message     *string `gorm:"type:text"                                      json:"message,omitempty"`
	Status      string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel

	// 关联
	Requester *User `gorm:"foreignKey:RequesterID;references:UserID" json:"requester,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;references:UserID" json:"recipient,omitempty"`
}

// TableName 指定表名
func (ConnectionRequest) TableName() string { return "connection_requests" }
