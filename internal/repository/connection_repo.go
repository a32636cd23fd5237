package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// ConnectionRepository 人脉请求数据访问接口
type ConnectionRepository interface {
	Create(ctx context.Context, req *model.ConnectionRequest) error
	GetByID(ctx context.Context, id string) (*model.ConnectionRequest, error)
	// GetByPair 双向查询两个用户之间是否已有请求
	GetByPair(ctx context.Context, userA, userB string) (*model.ConnectionRequest, error)
	Update(ctx context.Context, req *model.ConnectionRequest) error
	ListPendingForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]model.ConnectionRequest, int64, error)
	ListAcceptedForUser(ctx context.Context, userID string, offset, limit int) ([]model.ConnectionRequest, int64, error)
}

type connectionRepo struct {
	db *gorm.DB
}

// NewConnectionRepo 创建 ConnectionRepository 实例
func NewConnectionRepo(db *gorm.DB) ConnectionRepository {
	return &connectionRepo{db: db}
}

func (r *connectionRepo) Create(ctx context.Context, req *model.ConnectionRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *connectionRepo) GetByID(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *connectionRepo) GetByPair(ctx context.Context, userA, userB string) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *connectionRepo) Update(ctx context.Context, req *model.ConnectionRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *connectionRepo) ListPendingForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]model.ConnectionRequest, int64, error) {
	var reqs []model.ConnectionRequest
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.ConnectionRequest{}).
		Where("recipient_id = ? AND status = ?", recipientID, model.ConnectionPending)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Requester").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *connectionRepo) ListAcceptedForUser(ctx context.Context, userID string, offset, limit int) ([]model.ConnectionRequest, int64, error) {
	var reqs []model.ConnectionRequest
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.ConnectionRequest{}).
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?", userID, userID, model.ConnectionAccepted)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Requester").
		Preload("Recipient").
		Offset(offset).Limit(limit).
		Order("updated_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}
