package model

// 用户档案类型枚举
const (
	ProfileStartup       = "startup"
	ProfileExpert        = "expert"
	ProfileMentor        = "mentor"
	ProfileIncubator     = "incubator"
	ProfileInvestor      = "investor"
	ProfileFinancialInst = "financial_institution"
	ProfilePublicOrg     = "public_organization"
	ProfileTechPartner   = "tech_partner"
)

// ValidProfileType 校验档案类型是否合法
func ValidProfileType(profileType string) bool {
	switch profileType {
	case ProfileStartup, ProfileExpert, ProfileMentor, ProfileIncubator,
		ProfileInvestor, ProfileFinancialInst, ProfilePublicOrg, ProfileTechPartner:
		return true
	}
	return false
}

// 系统角色枚举
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	ProfileType  string  `gorm:"type:varchar(30);not null"                      json:"profile_type"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	IsVerified   bool    `gorm:"not null;default:false"                         json:"is_verified"`
	Company      *string `gorm:"type:varchar(200)"                              json:"company,omitempty"`
	Location     *string `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Description  *string `gorm:"type:text"                                      json:"description,omitempty"`
	Website      *string `gorm:"type:varchar(255)"                              json:"website,omitempty"`
	Phone        *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
