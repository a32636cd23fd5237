package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

var (
	ErrResourceNotFound    = errors.New("资源不存在")
	ErrInvalidResourceType = errors.New("资源类型不合法")
)

func validResourceType(t string) bool {
	switch t {
	case model.ResourceDocument, model.ResourceGuide, model.ResourceTemplate,
		model.ResourceVideo, model.ResourceLink:
		return true
	}
	return false
}

// ResourceService 资源库业务逻辑
type ResourceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResourceService 创建 ResourceService 实例
func NewResourceService(repo *repository.Repository, logger *zap.Logger) *ResourceService {
	return &ResourceService{repo: repo, logger: logger}
}

// Create 发布资源
func (s *ResourceService) Create(ctx context.Context, authorID string, req *dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	if !validResourceType(req.Type) {
		return nil, ErrInvalidResourceType
	}

	res := &model.Resource{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		Tags:        req.Tags,
	}
	res.CreatedBy = &authorID

	if err := s.repo.Resource.Create(ctx, res); err != nil {
		return nil, err
	}
	return toResourceResponse(res), nil
}

// GetByID 查询资源详情
func (s *ResourceService) GetByID(ctx context.Context, resourceID string) (*dto.ResourceResponse, error) {
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return toResourceResponse(res), nil
}

// List 分页浏览资源库
func (s *ResourceService) List(ctx context.Context, req *dto.ResourceListRequest) ([]dto.ResourceResponse, int64, error) {
	filters := &repository.ResourceListFilters{
		Type:    req.Type,
		Keyword: req.Keyword,
	}
	resources, total, err := s.repo.Resource.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		out = append(out, *toResourceResponse(&resources[i]))
	}
	return out, total, nil
}

// Update 更新资源，仅作者或管理员可操作
func (s *ResourceService) Update(ctx context.Context, actorID, actorRole, resourceID string, req *dto.UpdateResourceRequest) (*dto.ResourceResponse, error) {
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.AuthorID != actorID && actorRole != model.RoleAdmin {
		return nil, ErrResourceNotFound
	}

	if req.Title != nil {
		res.Title = *req.Title
	}
	if req.Description != nil {
		res.Description = req.Description
	}
	if req.URL != nil {
		res.URL = *req.URL
	}
	if req.Tags != nil {
		res.Tags = req.Tags
	}
	res.UpdatedBy = &actorID

	if err := s.repo.Resource.Update(ctx, res); err != nil {
		return nil, err
	}
	return toResourceResponse(res), nil
}

// Delete 下架资源（软删除），仅作者或管理员可操作
func (s *ResourceService) Delete(ctx context.Context, actorID, actorRole, resourceID string) error {
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if res.AuthorID != actorID && actorRole != model.RoleAdmin {
		return ErrResourceNotFound
	}
	return s.repo.Resource.Delete(ctx, resourceID, actorID)
}

// Download 记录一次下载并返回资源地址
func (s *ResourceService) Download(ctx context.Context, resourceID string) (string, error) {
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return "", err
	}

	if err := s.repo.Resource.IncrementDownload(ctx, resourceID); err != nil {
		// 计数失败不阻断下载
		s.logger.Warn("下载计数更新失败", zap.String("resource_id", resourceID), zap.Error(err))
	}
	return res.URL, nil
}

func (s *ResourceService) getResource(ctx context.Context, id string) (*model.Resource, error) {
	res, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return res, nil
}

func toResourceResponse(r *model.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:            r.ResourceID,
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		URL:           r.URL,
		Tags:          splitTags(r.Tags),
		DownloadCount: r.DownloadCount,
		Author:        toUserBrief(r.Author),
		CreatedAt:     formatTime(r.CreatedAt),
	}
}
