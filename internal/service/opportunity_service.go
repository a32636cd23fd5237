package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

var (
	ErrOpportunityNotFound = errors.New("机会不存在")
	ErrOpportunityClosed   = errors.New("机会已关闭")
	ErrInvalidOppType      = errors.New("机会类型不合法")
	ErrInvalidDeadline     = errors.New("截止时间格式不合法")
	ErrOwnOpportunity      = errors.New("不能申请自己发布的机会")
	ErrAlreadyApplied      = errors.New("已申请过该机会")
	ErrApplicationNotFound = errors.New("申请不存在")
	ErrApplicationDecided  = errors.New("申请已处理")
)

func validOpportunityType(t string) bool {
	switch t {
	case model.OpportunityFunding, model.OpportunityPartnership,
		model.OpportunityMission, model.OpportunityMentoring, model.OpportunityTraining:
		return true
	}
	return false
}

// OpportunityService 商业机会与申请业务逻辑
type OpportunityService struct {
	repo         *repository.Repository
	notification *NotificationService
	logger       *zap.Logger
}

// NewOpportunityService 创建 OpportunityService 实例
func NewOpportunityService(repo *repository.Repository, notification *NotificationService, logger *zap.Logger) *OpportunityService {
	return &OpportunityService{repo: repo, notification: notification, logger: logger}
}

// Create 发布机会
func (s *OpportunityService) Create(ctx context.Context, authorID string, req *dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error) {
	if !validOpportunityType(req.Type) {
		return nil, ErrInvalidOppType
	}

	opp := &model.Opportunity{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      model.OpportunityActive,
		Budget:      req.Budget,
		Location:    req.Location,
		Tags:        req.Tags,
	}
	opp.CreatedBy = &authorID

	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return nil, ErrInvalidDeadline
		}
		opp.Deadline = &deadline
	}

	if err := s.repo.Opportunity.Create(ctx, opp); err != nil {
		return nil, err
	}

	s.logger.Info("机会发布成功",
		zap.String("opportunity_id", opp.OpportunityID),
		zap.String("author_id", authorID))

	return s.toResponse(opp), nil
}

// GetByID 查询机会详情
func (s *OpportunityService) GetByID(ctx context.Context, opportunityID string) (*dto.OpportunityResponse, error) {
	opp, err := s.getOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(opp), nil
}

// List 分页浏览机会
func (s *OpportunityService) List(ctx context.Context, req *dto.OpportunityListRequest) ([]dto.OpportunityResponse, int64, error) {
	filters := &repository.OpportunityListFilters{
		Type:    req.Type,
		Status:  req.Status,
		Keyword: req.Keyword,
	}
	opps, total, err := s.repo.Opportunity.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.OpportunityResponse, 0, len(opps))
	for i := range opps {
		out = append(out, *s.toResponse(&opps[i]))
	}
	return out, total, nil
}

// Update 更新机会，仅作者或管理员可操作
// 无权限与不存在返回同一错误，不泄露存在性
func (s *OpportunityService) Update(ctx context.Context, actorID, actorRole, opportunityID string, req *dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error) {
	opp, err := s.getOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp.AuthorID != actorID && actorRole != model.RoleAdmin {
		return nil, ErrOpportunityNotFound
	}

	if req.Title != nil {
		opp.Title = *req.Title
	}
	if req.Description != nil {
		opp.Description = *req.Description
	}
	if req.Status != nil {
		opp.Status = *req.Status
	}
	if req.Budget != nil {
		opp.Budget = req.Budget
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return nil, ErrInvalidDeadline
		}
		opp.Deadline = &deadline
	}
	if req.Location != nil {
		opp.Location = req.Location
	}
	if req.Tags != nil {
		opp.Tags = req.Tags
	}
	opp.UpdatedBy = &actorID

	if err := s.repo.Opportunity.Update(ctx, opp); err != nil {
		return nil, err
	}
	return s.toResponse(opp), nil
}

// Delete 下架机会（软删除），仅作者或管理员可操作
func (s *OpportunityService) Delete(ctx context.Context, actorID, actorRole, opportunityID string) error {
	opp, err := s.getOpportunity(ctx, opportunityID)
	if err != nil {
		return err
	}
	if opp.AuthorID != actorID && actorRole != model.RoleAdmin {
		return ErrOpportunityNotFound
	}
	return s.repo.Opportunity.Delete(ctx, opportunityID, actorID)
}

// Apply 申请机会，成功后通知机会发布者
func (s *OpportunityService) Apply(ctx context.Context, applicantID string, opportunityID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	opp, err := s.getOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp.Status != model.OpportunityActive {
		return nil, ErrOpportunityClosed
	}
	if opp.AuthorID == applicantID {
		return nil, ErrOwnOpportunity
	}

	if _, err := s.repo.Application.GetByOpportunityAndApplicant(ctx, opportunityID, applicantID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app := &model.Application{
		OpportunityID: opportunityID,
		ApplicantID:   applicantID,
		Status:        model.ApplicationPending,
	}
	app.CreatedBy = &applicantID
	if req.Message != "" {
		app.Message = &req.Message
	}

	if err := s.repo.Application.Create(ctx, app); err != nil {
		return nil, err
	}

	// 通知发布者，推送失败不影响申请结果
	if err := s.notification.Dispatch(ctx, opp.AuthorID,
		model.NotificationOpportunityMatch,
		"收到新的机会申请",
		"您发布的「"+opp.Title+"」收到一条新申请",
		map[string]string{
			"opportunity_id": opportunityID,
			"application_id": app.ApplicationID,
		},
		"/opportunities/"+opportunityID+"/applications",
	); err != nil {
		s.logger.Warn("申请通知落库失败", zap.Error(err))
	}

	app.Opportunity = opp
	return s.toApplicationResponse(app), nil
}

// ListMyApplications 查询本人提交的申请
func (s *OpportunityService) ListMyApplications(ctx context.Context, applicantID string, page *dto.PaginationRequest) ([]dto.ApplicationResponse, int64, error) {
	apps, total, err := s.repo.Application.ListByApplicant(ctx, applicantID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return s.toApplicationList(apps), total, nil
}

// ListApplicants 查询某机会的申请列表，仅发布者或管理员可见
func (s *OpportunityService) ListApplicants(ctx context.Context, actorID, actorRole, opportunityID string, page *dto.PaginationRequest) ([]dto.ApplicationResponse, int64, error) {
	opp, err := s.getOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, 0, err
	}
	if opp.AuthorID != actorID && actorRole != model.RoleAdmin {
		return nil, 0, ErrOpportunityNotFound
	}

	apps, total, err := s.repo.Application.ListByOpportunity(ctx, opportunityID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return s.toApplicationList(apps), total, nil
}

// UpdateApplicationStatus 处理申请（接受/拒绝），成功后通知申请人
// 仅 pending 状态可流转
func (s *OpportunityService) UpdateApplicationStatus(ctx context.Context, actorID, applicationID string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	opp, err := s.getOpportunity(ctx, app.OpportunityID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}
	if opp.AuthorID != actorID {
		return nil, ErrApplicationNotFound
	}
	if app.Status != model.ApplicationPending {
		return nil, ErrApplicationDecided
	}

	app.Status = req.Status
	app.UpdatedBy = &actorID
	if err := s.repo.Application.Update(ctx, app); err != nil {
		return nil, err
	}

	statusText := "已被接受"
	if req.Status == model.ApplicationRejected {
		statusText = "未被接受"
	}
	if err := s.notification.Dispatch(ctx, app.ApplicantID,
		model.NotificationApplicationStatus,
		"申请状态更新",
		"您对「"+opp.Title+"」的申请"+statusText,
		map[string]string{
			"opportunity_id": opp.OpportunityID,
			"application_id": app.ApplicationID,
			"status":         req.Status,
		},
		"/opportunities/"+opp.OpportunityID,
	); err != nil {
		s.logger.Warn("申请状态通知落库失败", zap.Error(err))
	}

	app.Opportunity = opp
	return s.toApplicationResponse(app), nil
}

func (s *OpportunityService) getOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	opp, err := s.repo.Opportunity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}
	return opp, nil
}

func (s *OpportunityService) toResponse(o *model.Opportunity) *dto.OpportunityResponse {
	return &dto.OpportunityResponse{
		ID:          o.OpportunityID,
		Title:       o.Title,
		Description: o.Description,
		Type:        o.Type,
		Status:      o.Status,
		Budget:      o.Budget,
		Deadline:    formatTimePtr(o.Deadline),
		Location:    o.Location,
		Tags:        splitTags(o.Tags),
		Author:      toUserBrief(o.Author),
		CreatedAt:   formatTime(o.CreatedAt),
	}
}

func (s *OpportunityService) toApplicationResponse(a *model.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:            a.ApplicationID,
		OpportunityID: a.OpportunityID,
		Applicant:     toUserBrief(a.Applicant),
		Message:       a.Message,
		Status:        a.Status,
		CreatedAt:     formatTime(a.CreatedAt),
	}
	if a.Opportunity != nil {
		resp.Opportunity = a.Opportunity.Title
	}
	return resp
}

func (s *OpportunityService) toApplicationList(apps []model.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, *s.toApplicationResponse(&apps[i]))
	}
	return out
}
