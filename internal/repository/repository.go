package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Opportunity  OpportunityRepository
	Application  ApplicationRepository
	Event        EventRepository
	Registration RegistrationRepository
	Resource     ResourceRepository
	Message      MessageRepository
	Connection   ConnectionRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Opportunity:  NewOpportunityRepo(db),
		Application:  NewApplicationRepo(db),
		Event:        NewEventRepo(db),
		Registration: NewRegistrationRepo(db),
		Resource:     NewResourceRepo(db),
		Message:      NewMessageRepo(db),
		Connection:   NewConnectionRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
