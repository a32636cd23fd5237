package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// ApplicationRepository 机会申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByOpportunityAndApplicant(ctx context.Context, opportunityID, applicantID string) (*model.Application, error)
	Update(ctx context.Context, app *model.Application) error
	ListByApplicant(ctx context.Context, applicantID string, offset, limit int) ([]model.Application, int64, error)
	ListByOpportunity(ctx context.Context, opportunityID string, offset, limit int) ([]model.Application, int64, error)
	Count(ctx context.Context) (int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Opportunity").
		Preload("Applicant").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByOpportunityAndApplicant(ctx context.Context, opportunityID, applicantID string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ? AND applicant_id = ?", opportunityID, applicantID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string, offset, limit int) ([]model.Application, int64, error) {
	return r.list(ctx, "applicant_id = ?", applicantID, offset, limit)
}

func (r *applicationRepo) ListByOpportunity(ctx context.Context, opportunityID string, offset, limit int) ([]model.Application, int64, error) {
	return r.list(ctx, "opportunity_id = ?", opportunityID, offset, limit)
}

func (r *applicationRepo) list(ctx context.Context, cond string, arg string, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{}).Where(cond, arg)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Opportunity").
		Preload("Applicant").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).Count(&count).Error
	return count, err
}
