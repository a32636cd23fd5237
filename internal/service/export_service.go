package service

import (
	"context"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

// 导出单次最多拉取的行数，防止整表导出拖垮数据库
const exportBatchLimit = 10000

// ExportService 管理端数据导出（Excel）
type ExportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, logger: logger}
}

// ExportUsers 导出用户目录
func (s *ExportService) ExportUsers(ctx context.Context) (*excelize.File, error) {
	users, _, err := s.repo.User.List(ctx, nil, 0, exportBatchLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"ID", "Name", "Email", "Profile Type", "Role", "Verified", "Company", "Location", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i := range users {
		u := &users[i]
		row := []interface{}{
			u.UserID, u.Name, u.Email, u.ProfileType, u.Role, u.IsVerified,
			deref(u.Company), deref(u.Location), formatTime(u.CreatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	s.logger.Info("用户目录导出完成", zap.Int("rows", len(users)))
	return f, nil
}

// ExportOpportunities 导出机会列表
func (s *ExportService) ExportOpportunities(ctx context.Context) (*excelize.File, error) {
	opps, _, err := s.repo.Opportunity.List(ctx, nil, 0, exportBatchLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Opportunities"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"ID", "Title", "Type", "Status", "Author", "Budget", "Deadline", "Location", "Tags", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i := range opps {
		o := &opps[i]
		authorName := ""
		if o.Author != nil {
			authorName = o.Author.Name
		}
		deadline := ""
		if formatted := formatTimePtr(o.Deadline); formatted != nil {
			deadline = *formatted
		}
		row := []interface{}{
			o.OpportunityID, o.Title, o.Type, o.Status, authorName,
			deref(o.Budget), deadline, deref(o.Location),
			strings.Join(splitTags(o.Tags), ", "), formatTime(o.CreatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	s.logger.Info("机会列表导出完成", zap.Int("rows", len(opps)))
	return f, nil
}

// ExportApplications 导出单个机会收到的全部申请
func (s *ExportService) ExportApplications(ctx context.Context, opportunityID string) (*excelize.File, error) {
	if _, err := s.repo.Opportunity.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}

	apps, _, err := s.repo.Application.ListByOpportunity(ctx, opportunityID, 0, exportBatchLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Applications"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"ID", "Applicant", "Email", "Message", "Status", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i := range apps {
		a := &apps[i]
		applicantName, applicantEmail := "", ""
		if a.Applicant != nil {
			applicantName = a.Applicant.Name
			applicantEmail = a.Applicant.Email
		}
		row := []interface{}{
			a.ApplicationID, applicantName, applicantEmail,
			deref(a.Message), a.Status, formatTime(a.CreatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	s.logger.Info("申请列表导出完成",
		zap.String("opportunity_id", opportunityID),
		zap.Int("rows", len(apps)))
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
