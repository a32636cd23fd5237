package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// OpportunityListFilters 机会列表过滤条件
type OpportunityListFilters struct {
	Type     string
	Status   string
	AuthorID string
	Keyword  string
}

// OpportunityRepository 机会数据访问接口
type OpportunityRepository interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	GetByID(ctx context.Context, id string) (*model.Opportunity, error)
	Update(ctx context.Context, opp *model.Opportunity) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filters *OpportunityListFilters, offset, limit int) ([]model.Opportunity, int64, error)
	Count(ctx context.Context) (int64, error)
}

type opportunityRepo struct {
	db *gorm.DB
}

// NewOpportunityRepo 创建 OpportunityRepository 实例
func NewOpportunityRepo(db *gorm.DB) OpportunityRepository {
	return &opportunityRepo{db: db}
}

func (r *opportunityRepo) Create(ctx context.Context, opp *model.Opportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

func (r *opportunityRepo) GetByID(ctx context.Context, id string) (*model.Opportunity, error) {
	var opp model.Opportunity
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("opportunity_id = ?", id).
		First(&opp).Error
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *opportunityRepo) Update(ctx context.Context, opp *model.Opportunity) error {
	return r.db.WithContext(ctx).Save(opp).Error
}

func (r *opportunityRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Opportunity{}).
			Where("opportunity_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("opportunity_id = ?", id).Delete(&model.Opportunity{}).Error
	})
}

func (r *opportunityRepo) List(ctx context.Context, filters *OpportunityListFilters, offset, limit int) ([]model.Opportunity, int64, error) {
	var opps []model.Opportunity
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Opportunity{})

	if filters != nil {
		if filters.Type != "" {
			db = db.Where("type = ?", filters.Type)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.AuthorID != "" {
			db = db.Where("author_id = ?", filters.AuthorID)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("title ILIKE ? OR description ILIKE ? OR tags ILIKE ?", kw, kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Author").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&opps).Error; err != nil {
		return nil, 0, err
	}

	return opps, total, nil
}

func (r *opportunityRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Opportunity{}).Count(&count).Error
	return count, err
}
