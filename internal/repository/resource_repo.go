package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// ResourceListFilters 资源列表过滤条件
type ResourceListFilters struct {
	Type     string
	AuthorID string
	Keyword  string
}

// ResourceRepository 资源数据访问接口
type ResourceRepository interface {
	Create(ctx context.Context, res *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	Update(ctx context.Context, res *model.Resource) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filters *ResourceListFilters, offset, limit int) ([]model.Resource, int64, error)
	IncrementDownload(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type resourceRepo struct {
	db *gorm.DB
}

// NewResourceRepo 创建 ResourceRepository 实例
func NewResourceRepo(db *gorm.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) Create(ctx context.Context, res *model.Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *resourceRepo) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var res model.Resource
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("resource_id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepo) Update(ctx context.Context, res *model.Resource) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *resourceRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Resource{}).
			Where("resource_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("resource_id = ?", id).Delete(&model.Resource{}).Error
	})
}

func (r *resourceRepo) List(ctx context.Context, filters *ResourceListFilters, offset, limit int) ([]model.Resource, int64, error) {
	var resources []model.Resource
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Resource{})

	if filters != nil {
		if filters.Type != "" {
			db = db.Where("type = ?", filters.Type)
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
		Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

func (r *resourceRepo) IncrementDownload(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("resource_id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *resourceRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Resource{}).Count(&count).Error
	return count, err
}
