package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// RegistrationRepository 活动报名数据访问接口
type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.EventRegistration) error
	GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*model.EventRegistration, error)
	Update(ctx context.Context, reg *model.EventRegistration) error
	CountActiveByEvent(ctx context.Context, eventID string) (int64, error)
	ListByAttendee(ctx context.Context, attendeeID string, offset, limit int) ([]model.EventRegistration, int64, error)
	// ListDueReminders 查询尚未提醒、活动即将在窗口内开始的有效报名
	ListDueReminders(ctx context.Context, windowEnd time.Time) ([]model.EventRegistration, error)
	MarkReminderSent(ctx context.Context, registrationID string, sentAt time.Time) error
}

type registrationRepo struct {
	db *gorm.DB
}

// NewRegistrationRepo 创建 RegistrationRepository 实例
func NewRegistrationRepo(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *model.EventRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepo) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) Update(ctx context.Context, reg *model.EventRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registrationRepo) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, model.RegistrationActive).
		Count(&count).Error
	return count, err
}

func (r *registrationRepo) ListByAttendee(ctx context.Context, attendeeID string, offset, limit int) ([]model.EventRegistration, int64, error) {
	var regs []model.EventRegistration
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("attendee_id = ? AND status = ?", attendeeID, model.RegistrationActive)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Event").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&regs).Error; err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *registrationRepo) ListDueReminders(ctx context.Context, windowEnd time.Time) ([]model.EventRegistration, error) {
	var regs []model.EventRegistration
	err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.event_id = event_registrations.event_id").
		Where("event_registrations.status = ?", model.RegistrationActive).
		Where("event_registrations.reminder_sent_at IS NULL").
		Where("events.status = ?", model.EventScheduled).
		Where("events.deleted_at IS NULL").
		Where("events.starts_at > ? AND events.starts_at <= ?", time.Now(), windowEnd).
		Preload("Event").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) MarkReminderSent(ctx context.Context, registrationID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("registration_id = ?", registrationID).
		Update("reminder_sent_at", sentAt).Error
}
