package model

import "time"

// Message 私信表 — 对应 messages
type Message struct {
	MessageID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	SenderID    string     `gorm:"type:uuid;not null;index:idx_msg_pair"          json:"sender_id"`
	RecipientID string     `gorm:"type:uuid;not null;index:idx_msg_pair"          json:"recipient_id"`
	Content     string     `gorm:"type:text;not null"                             json:"content"`
	IsRead      bool       `gorm:"not null;default:false"                         json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	BaseModel

	// 关联
	Sender    *User `gorm:"foreignKey:SenderID;references:UserID"    json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;references:UserID" json:"recipient,omitempty"`
}

// TableName 指定表名
func (Message) TableName() string { return "messages" }
