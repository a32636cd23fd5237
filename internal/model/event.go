package model

import "time"

// 活动类型枚举
const (
	EventWebinar    = "webinar"
	EventWorkshop   = "workshop"
	EventConference = "conference"
	EventNetworking = "networking"
)

// 活动状态枚举
const (
	EventScheduled = "scheduled"
	EventCancelled = "cancelled"
)

// Event 活动表 — 对应 events
type Event struct {
	EventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	OrganizerID string    `gorm:"type:uuid;not null;index"                       json:"organizer_id"`
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string    `gorm:"type:text;not null"                             json:"description"`
	Type        string    `gorm:"type:varchar(30);not null"                      json:"type"`
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	StartsAt    time.Time `gorm:"not null;index"                                 json:"starts_at"`
	EndsAt      time.Time `gorm:"not null"                                       json:"ends_at"`
	Location    *string   `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	IsOnline    bool      `gorm:"not null;default:false"                         json:"is_online"`
	Capacity    int       `gorm:"not null;default:0"                             json:"capacity"` // 0 = 不限
	SoftDeleteModel

	// 关联
	Organizer *User `gorm:"foreignKey:OrganizerID;references:UserID" json:"organizer,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// 报名状态枚举
const (
	RegistrationActive    = "registered"
	RegistrationCancelled = "cancelled"
)

// EventRegistration 活动报名表 — 对应 event_registrations
// (event_id, attendee_id) 唯一，避免重复报名
type EventRegistration struct {
	RegistrationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"registration_id"`
	EventID        string     `gorm:"type:uuid;not null;uniqueIndex:uq_reg_event_user"  json:"event_id"`
	AttendeeID     string     `gorm:"type:uuid;not null;uniqueIndex:uq_reg_event_user"  json:"attendee_id"`
	Status         string     `gorm:"type:varchar(20);not null;default:'registered'"    json:"status"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"` // 活动提醒去重标记
	BaseModel

	// 关联
	Event    *Event `gorm:"foreignKey:EventID;references:EventID"   json:"event,omitempty"`
	Attendee *User  `gorm:"foreignKey:AttendeeID;references:UserID" json:"attendee,omitempty"`
}

// TableName 指定表名
func (EventRegistration) TableName() string { return "event_registrations" }
