package service

import (
	"context"
	"errors"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

var (
	ErrEventNotFound        = errors.New("活动不存在")
	ErrEventCancelled       = errors.New("活动已取消")
	ErrEventStarted         = errors.New("活动已开始")
	ErrEventFull            = errors.New("活动名额已满")
	ErrInvalidEventType     = errors.New("活动类型不合法")
	ErrInvalidEventTime     = errors.New("活动时间不合法")
	ErrAlreadyRegistered    = errors.New("已报名该活动")
	ErrRegistrationNotFound = errors.New("报名记录不存在")
)

func validEventType(t string) bool {
	switch t {
	case model.EventWebinar, model.EventWorkshop, model.EventConference, model.EventNetworking:
		return true
	}
	return false
}

// EventService 活动与报名业务逻辑
type EventService struct {
	repo         *repository.Repository
	notification *NotificationService
	logger       *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, notification *NotificationService, logger *zap.Logger) *EventService {
	return &EventService{repo: repo, notification: notification, logger: logger}
}

// Create 创建活动
func (s *EventService) Create(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if !validEventType(req.Type) {
		return nil, ErrInvalidEventType
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, ErrInvalidEventTime
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, ErrInvalidEventTime
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidEventTime
	}

	event := &model.Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      model.EventScheduled,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Location:    req.Location,
		IsOnline:    req.IsOnline,
		Capacity:    req.Capacity,
	}
	event.CreatedBy = &organizerID

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("活动创建成功",
		zap.String("event_id", event.EventID),
		zap.String("organizer_id", organizerID))

	return s.toResponse(ctx, event), nil
}

// GetByID 查询活动详情（含已报名人数）
func (s *EventService) GetByID(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, event), nil
}

// List 分页浏览活动
func (s *EventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	filters := &repository.EventListFilters{
		Type:         req.Type,
		UpcomingOnly: req.UpcomingOnly,
		Keyword:      req.Keyword,
	}
	events, total, err := s.repo.Event.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *s.toResponse(ctx, &events[i]))
	}
	return out, total, nil
}

// Update 更新活动，仅组织者或管理员可操作
func (s *EventService) Update(ctx context.Context, actorID, actorRole, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actorID && actorRole != model.RoleAdmin {
		return nil, ErrEventNotFound
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, ErrInvalidEventTime
		}
		event.StartsAt = startsAt
	}
	if req.EndsAt != nil {
		endsAt, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, ErrInvalidEventTime
		}
		event.EndsAt = endsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, ErrInvalidEventTime
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	event.UpdatedBy = &actorID

	if err := s.repo.Event.Update(ctx, event); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, event), nil
}

// Delete 下架活动（软删除），仅组织者或管理员可操作
func (s *EventService) Delete(ctx context.Context, actorID, actorRole, eventID string) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != actorID && actorRole != model.RoleAdmin {
		return ErrEventNotFound
	}
	return s.repo.Event.Delete(ctx, eventID, actorID)
}

// Register 报名活动，成功后通知组织者
// 曾取消报名的用户重新报名时复用原记录
func (s *EventService) Register(ctx context.Context, attendeeID, eventID string) (*dto.RegistrationResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventScheduled {
		return nil, ErrEventCancelled
	}
	if !event.StartsAt.After(time.Now()) {
		return nil, ErrEventStarted
	}

	if event.Capacity > 0 {
		active, err := s.repo.Registration.CountActiveByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if active >= int64(event.Capacity) {
			return nil, ErrEventFull
		}
	}

	reg, err := s.repo.Registration.GetByEventAndAttendee(ctx, eventID, attendeeID)
	switch {
	case err == nil && reg.Status == model.RegistrationActive:
		return nil, ErrAlreadyRegistered
	case err == nil:
		// 取消过的报名重新激活，提醒标记一并重置
		reg.Status = model.RegistrationActive
		reg.ReminderSentAt = nil
		reg.UpdatedBy = &attendeeID
		if err := s.repo.Registration.Update(ctx, reg); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reg = &model.EventRegistration{
			EventID:    eventID,
			AttendeeID: attendeeID,
			Status:     model.RegistrationActive,
		}
		reg.CreatedBy = &attendeeID
		if err := s.repo.Registration.Create(ctx, reg); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.notification.Dispatch(ctx, event.OrganizerID,
		model.NotificationSystem,
		"新的活动报名",
		"您组织的「"+event.Title+"」有新的报名",
		map[string]string{"event_id": eventID},
		"/events/"+eventID,
	); err != nil {
		s.logger.Warn("报名通知落库失败", zap.Error(err))
	}

	reg.Event = event
	return s.toRegistrationResponse(reg), nil
}

// CancelRegistration 取消报名
func (s *EventService) CancelRegistration(ctx context.Context, attendeeID, eventID string) error {
	reg, err := s.repo.Registration.GetByEventAndAttendee(ctx, eventID, attendeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}
	if reg.Status != model.RegistrationActive {
		return ErrRegistrationNotFound
	}

	reg.Status = model.RegistrationCancelled
	reg.UpdatedBy = &attendeeID
	return s.repo.Registration.Update(ctx, reg)
}

// ListMyRegistrations 查询本人的有效报名
func (s *EventService) ListMyRegistrations(ctx context.Context, attendeeID string, page *dto.PaginationRequest) ([]dto.RegistrationResponse, int64, error) {
	regs, total, err := s.repo.Registration.ListByAttendee(ctx, attendeeID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, *s.toRegistrationResponse(&regs[i]))
	}
	return out, total, nil
}

// ExportICS 导出活动为 iCalendar 文本，供客户端加入日历
func (s *EventService) ExportICS(ctx context.Context, eventID string) (string, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//PME 360//Events//FR")

	e := cal.AddEvent(event.EventID + "@pme360")
	e.SetCreatedTime(event.CreatedAt)
	e.SetDtStampTime(time.Now())
	e.SetStartAt(event.StartsAt)
	e.SetEndAt(event.EndsAt)
	e.SetSummary(event.Title)
	e.SetDescription(event.Description)
	if event.Location != nil {
		e.SetLocation(*event.Location)
	} else if event.IsOnline {
		e.SetLocation("En ligne")
	}

	return cal.Serialize(), nil
}

// SendReminders 给 24 小时内开始的活动的有效报名发送提醒
// 每条报名只提醒一次，reminder_sent_at 作去重标记
func (s *EventService) SendReminders(ctx context.Context) (int, error) {
	regs, err := s.repo.Registration.ListDueReminders(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range regs {
		reg := &regs[i]
		if reg.Event == nil {
			continue
		}

		if err := s.notification.Dispatch(ctx, reg.AttendeeID,
			model.NotificationEventReminder,
			"活动即将开始",
			"您报名的「"+reg.Event.Title+"」将于 "+reg.Event.StartsAt.Format("2006-01-02 15:04")+" 开始",
			map[string]string{"event_id": reg.EventID},
			"/events/"+reg.EventID,
		); err != nil {
			s.logger.Warn("活动提醒落库失败",
				zap.String("registration_id", reg.RegistrationID), zap.Error(err))
			continue
		}

		if err := s.repo.Registration.MarkReminderSent(ctx, reg.RegistrationID, time.Now()); err != nil {
			s.logger.Warn("提醒标记更新失败",
				zap.String("registration_id", reg.RegistrationID), zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("活动提醒发送完成", zap.Int("sent", sent))
	}
	return sent, nil
}

func (s *EventService) getEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) toResponse(ctx context.Context, e *model.Event) *dto.EventResponse {
	registered, err := s.repo.Registration.CountActiveByEvent(ctx, e.EventID)
	if err != nil {
		s.logger.Warn("报名人数统计失败", zap.String("event_id", e.EventID), zap.Error(err))
	}

	return &dto.EventResponse{
		ID:              e.EventID,
		Title:           e.Title,
		Description:     e.Description,
		Type:            e.Type,
		Status:          e.Status,
		StartsAt:        formatTime(e.StartsAt),
		EndsAt:          formatTime(e.EndsAt),
		Location:        e.Location,
		IsOnline:        e.IsOnline,
		Capacity:        e.Capacity,
		RegisteredCount: registered,
		Organizer:       toUserBrief(e.Organizer),
		CreatedAt:       formatTime(e.CreatedAt),
	}
}

func (s *EventService) toRegistrationResponse(r *model.EventRegistration) *dto.RegistrationResponse {
	resp := &dto.RegistrationResponse{
		ID:       r.RegistrationID,
		EventID:  r.EventID,
		Attendee: toUserBrief(r.Attendee),
		Status:   r.Status,
	}
	if r.Event != nil {
		resp.Event = r.Event.Title
	}
	return resp
}
