package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// EventListFilters 活动列表过滤条件
type EventListFilters struct {
	Type         string
	OrganizerID  string
	UpcomingOnly bool
	Keyword      string
}

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filters *EventListFilters, offset, limit int) ([]model.Event, int64, error)
	Count(ctx context.Context) (int64, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Organizer").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Event{}).
			Where("event_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", id).Delete(&model.Event{}).Error
	})
}

func (r *eventRepo) List(ctx context.Context, filters *EventListFilters, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})

	if filters != nil {
		if filters.Type != "" {
			db = db.Where("type = ?", filters.Type)
		}
		if filters.OrganizerID != "" {
			db = db.Where("organizer_id = ?", filters.OrganizerID)
		}
		if filters.UpcomingOnly {
			db = db.Where("starts_at > ? AND status = ?", time.Now(), model.EventScheduled)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("title ILIKE ? OR description ILIKE ?", kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Organizer").
		Offset(offset).Limit(limit).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error
	return count, err
}
