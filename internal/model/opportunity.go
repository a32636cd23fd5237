package model

import "time"

// 机会类型枚举
const (
	OpportunityFunding     = "funding"
	OpportunityPartnership = "partnership"
	OpportunityMission     = "mission"
	OpportunityMentoring   = "mentoring"
	OpportunityTraining    = "training"
)

// 机会状态枚举
const (
	OpportunityActive = "active"
	OpportunityClosed = "closed"
)

// Opportunity 商业机会表 — 对应 opportunities
type Opportunity struct {
	OpportunityID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"opportunity_id"`
	AuthorID      string     `gorm:"type:uuid;not null;index"                       json:"author_id"`
	Title         string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string     `gorm:"type:text;not null"                             json:"description"`
	Type          string     `gorm:"type:varchar(30);not null"                      json:"type"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Budget        *string    `gorm:"type:varchar(100)"                              json:"budget,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Location      *string    `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Tags          *string    `gorm:"type:text"                                      json:"tags,omitempty"` // 逗号分隔
	SoftDeleteModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (Opportunity) TableName() string { return "opportunities" }

// 申请状态枚举
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application 机会申请表 — 对应 applications
// (opportunity_id, applicant_id) 唯一，避免重复申请
type Application struct {
	ApplicationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"application_id"`
	OpportunityID string  `gorm:"type:uuid;not null;uniqueIndex:uq_app_opp_applicant" json:"opportunity_id"`
	ApplicantID   string  `gorm:"type:uuid;not null;uniqueIndex:uq_app_opp_applicant" json:"applicant_id"`
	Message       *string `gorm:"type:text"                                           json:"message,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending'"         json:"status"`
	BaseModel

	// 关联
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:OpportunityID" json:"opportunity,omitempty"`
	Applicant   *User        `gorm:"foreignKey:ApplicantID;references:UserID"          json:"applicant,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }
