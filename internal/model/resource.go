package model

// 资源类型枚举
const (
	ResourceDocument = "document"
	ResourceGuide    = "guide"
	ResourceTemplate = "template"
	ResourceVideo    = "video"
	ResourceLink     = "link"
)

// Resource 资源表 — 对应 resources
type Resource struct {
	ResourceID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_id"`
	AuthorID      string  `gorm:"type:uuid;not null;index"                       json:"author_id"`
	Title         string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   *string `gorm:"type:text"                                      json:"description,omitempty"`
	Type          string  `gorm:"type:varchar(30);not null"                      json:"type"`
	URL           string  `gorm:"type:varchar(500);not null"                     json:"url"`
	Tags          *string `gorm:"type:text"                                      json:"tags,omitempty"` // 逗号分隔
	DownloadCount int64   `gorm:"not null;default:0"                             json:"download_count"`
	SoftDeleteModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (Resource) TableName() string { return "resources" }
