package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

// 内存版 Repository 实现，避免单测依赖数据库

func newMockRepository() *repository.Repository {
	eventRepo := &mockEventRepo{events: map[string]*model.Event{}}
	return &repository.Repository{
		User:         &mockUserRepo{users: map[string]*model.User{}},
		Opportunity:  &mockOpportunityRepo{opps: map[string]*model.Opportunity{}},
		Application:  &mockApplicationRepo{apps: map[string]*model.Application{}},
		Event:        eventRepo,
		Registration: &mockRegistrationRepo{regs: map[string]*model.EventRegistration{}, events: eventRepo},
		Resource:     &mockResourceRepo{resources: map[string]*model.Resource{}},
		Message:      &mockMessageRepo{},
		Connection:   &mockConnectionRepo{conns: map[string]*model.ConnectionRequest{}},
		Notification: &mockNotificationRepo{notifs: map[string]*model.Notification{}},
	}
}

func fillAudit(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
}

// ── 用户 ──

type mockUserRepo struct {
	users map[string]*model.User
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	fillAudit(&user.UserID, &user.CreatedAt)
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, user := range m.users {
		if filters != nil && filters.ProfileType != "" && user.ProfileType != filters.ProfileType {
			continue
		}
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockUserRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── 机会 ──

type mockOpportunityRepo struct {
	opps map[string]*model.Opportunity
}

func (m *mockOpportunityRepo) Create(_ context.Context, opp *model.Opportunity) error {
	fillAudit(&opp.OpportunityID, &opp.CreatedAt)
	cp := *opp
	m.opps[opp.OpportunityID] = &cp
	return nil
}

func (m *mockOpportunityRepo) GetByID(_ context.Context, id string) (*model.Opportunity, error) {
	opp, ok := m.opps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *opp
	return &cp, nil
}

func (m *mockOpportunityRepo) Update(_ context.Context, opp *model.Opportunity) error {
	cp := *opp
	m.opps[opp.OpportunityID] = &cp
	return nil
}

func (m *mockOpportunityRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.opps, id)
	return nil
}

func (m *mockOpportunityRepo) List(_ context.Context, filters *repository.OpportunityListFilters, offset, limit int) ([]model.Opportunity, int64, error) {
	var out []model.Opportunity
	for _, opp := range m.opps {
		if filters != nil {
			if filters.Type != "" && opp.Type != filters.Type {
				continue
			}
			if filters.Status != "" && opp.Status != filters.Status {
				continue
			}
		}
		out = append(out, *opp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpportunityID < out[j].OpportunityID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockOpportunityRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.opps)), nil
}

// ── 申请 ──

type mockApplicationRepo struct {
	apps map[string]*model.Application
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	fillAudit(&app.ApplicationID, &app.CreatedAt)
	cp := *app
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *app
	return &cp, nil
}

func (m *mockApplicationRepo) GetByOpportunityAndApplicant(_ context.Context, opportunityID, applicantID string) (*model.Application, error) {
	for _, app := range m.apps {
		if app.OpportunityID == opportunityID && app.ApplicantID == applicantID {
			cp := *app
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.Application) error {
	cp := *app
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) ListByApplicant(_ context.Context, applicantID string, offset, limit int) ([]model.Application, int64, error) {
	var out []model.Application
	for _, app := range m.apps {
		if app.ApplicantID == applicantID {
			out = append(out, *app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockApplicationRepo) ListByOpportunity(_ context.Context, opportunityID string, offset, limit int) ([]model.Application, int64, error) {
	var out []model.Application
	for _, app := range m.apps {
		if app.OpportunityID == opportunityID {
			out = append(out, *app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockApplicationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.apps)), nil
}

// ── 活动 ──

type mockEventRepo struct {
	events map[string]*model.Event
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	fillAudit(&event.EventID, &event.CreatedAt)
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *event
	return &cp, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, filters *repository.EventListFilters, offset, limit int) ([]model.Event, int64, error) {
	var out []model.Event
	for _, event := range m.events {
		if filters != nil && filters.Type != "" && event.Type != filters.Type {
			continue
		}
		out = append(out, *event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

// ── 报名 ──

type mockRegistrationRepo struct {
	regs   map[string]*model.EventRegistration
	events *mockEventRepo // ListDueReminders 需要联表
}

func (m *mockRegistrationRepo) Create(_ context.Context, reg *model.EventRegistration) error {
	fillAudit(&reg.RegistrationID, &reg.CreatedAt)
	cp := *reg
	m.regs[reg.RegistrationID] = &cp
	return nil
}

func (m *mockRegistrationRepo) GetByEventAndAttendee(_ context.Context, eventID, attendeeID string) (*model.EventRegistration, error) {
	for _, reg := range m.regs {
		if reg.EventID == eventID && reg.AttendeeID == attendeeID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) Update(_ context.Context, reg *model.EventRegistration) error {
	cp := *reg
	m.regs[reg.RegistrationID] = &cp
	return nil
}

func (m *mockRegistrationRepo) CountActiveByEvent(_ context.Context, eventID string) (int64, error) {
	var count int64
	for _, reg := range m.regs {
		if reg.EventID == eventID && reg.Status == model.RegistrationActive {
			count++
		}
	}
	return count, nil
}

func (m *mockRegistrationRepo) ListByAttendee(_ context.Context, attendeeID string, offset, limit int) ([]model.EventRegistration, int64, error) {
	var out []model.EventRegistration
	for _, reg := range m.regs {
		if reg.AttendeeID == attendeeID && reg.Status == model.RegistrationActive {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationID < out[j].RegistrationID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockRegistrationRepo) ListDueReminders(_ context.Context, windowEnd time.Time) ([]model.EventRegistration, error) {
	var out []model.EventRegistration
	now := time.Now()
	for _, reg := range m.regs {
		if reg.Status != model.RegistrationActive || reg.ReminderSentAt != nil {
			continue
		}
		if m.events == nil {
			continue
		}
		event, ok := m.events.events[reg.EventID]
		if !ok || event.Status != model.EventScheduled {
			continue
		}
		if event.StartsAt.After(now) && !event.StartsAt.After(windowEnd) {
			cp := *reg
			evCp := *event
			cp.Event = &evCp
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepo) MarkReminderSent(_ context.Context, registrationID string, sentAt time.Time) error {
	if reg, ok := m.regs[registrationID]; ok {
		reg.ReminderSentAt = &sentAt
	}
	return nil
}

// ── 资源 ──

type mockResourceRepo struct {
	resources map[string]*model.Resource
}

func (m *mockResourceRepo) Create(_ context.Context, res *model.Resource) error {
	fillAudit(&res.ResourceID, &res.CreatedAt)
	cp := *res
	m.resources[res.ResourceID] = &cp
	return nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	res, ok := m.resources[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *res
	return &cp, nil
}

func (m *mockResourceRepo) Update(_ context.Context, res *model.Resource) error {
	cp := *res
	m.resources[res.ResourceID] = &cp
	return nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.resources, id)
	return nil
}

func (m *mockResourceRepo) List(_ context.Context, filters *repository.ResourceListFilters, offset, limit int) ([]model.Resource, int64, error) {
	var out []model.Resource
	for _, res := range m.resources {
		if filters != nil && filters.Type != "" && res.Type != filters.Type {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockResourceRepo) IncrementDownload(_ context.Context, id string) error {
	if res, ok := m.resources[id]; ok {
		res.DownloadCount++
	}
	return nil
}

func (m *mockResourceRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.resources)), nil
}

// ── 私信 ──

type mockMessageRepo struct {
	msgs []*model.Message
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) error {
	fillAudit(&msg.MessageID, &msg.CreatedAt)
	cp := *msg
	m.msgs = append(m.msgs, &cp)
	return nil
}

func (m *mockMessageRepo) Conversation(_ context.Context, userID, peerID string, offset, limit int) ([]model.Message, int64, error) {
	var out []model.Message
	for _, msg := range m.msgs {
		if (msg.SenderID == userID && msg.RecipientID == peerID) ||
			(msg.SenderID == peerID && msg.RecipientID == userID) {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockMessageRepo) MarkConversationRead(_ context.Context, userID, peerID string) (int64, error) {
	now := time.Now()
	var count int64
	for _, msg := range m.msgs {
		if msg.RecipientID == userID && msg.SenderID == peerID && !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) ListConversations(_ context.Context, userID string) ([]repository.ConversationSummary, error) {
	latest := map[string]*model.Message{}
	unread := map[string]int64{}
	for _, msg := range m.msgs {
		var peer string
		switch {
		case msg.SenderID == userID:
			peer = msg.RecipientID
		case msg.RecipientID == userID:
			peer = msg.SenderID
		default:
			continue
		}
		if cur, ok := latest[peer]; !ok || msg.CreatedAt.After(cur.CreatedAt) {
			latest[peer] = msg
		}
		if msg.RecipientID == userID && !msg.IsRead {
			unread[peer]++
		}
	}

	var out []repository.ConversationSummary
	for peer, msg := range latest {
		out = append(out, repository.ConversationSummary{
			PeerID:      peer,
			LastMessage: msg.Content,
			LastAt:      msg.CreatedAt,
			UnreadCount: unread[peer],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

func (m *mockMessageRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, msg := range m.msgs {
		if msg.RecipientID == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.msgs)), nil
}

// ── 人脉 ──

type mockConnectionRepo struct {
	conns map[string]*model.ConnectionRequest
}

func (m *mockConnectionRepo) Create(_ context.Context, req *model.ConnectionRequest) error {
	fillAudit(&req.RequestID, &req.CreatedAt)
	cp := *req
	m.conns[req.RequestID] = &cp
	return nil
}

func (m *mockConnectionRepo) GetByID(_ context.Context, id string) (*model.ConnectionRequest, error) {
	conn, ok := m.conns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *conn
	return &cp, nil
}

func (m *mockConnectionRepo) GetByPair(_ context.Context, userA, userB string) (*model.ConnectionRequest, error) {
	for _, conn := range m.conns {
		if (conn.RequesterID == userA && conn.RecipientID == userB) ||
			(conn.RequesterID == userB && conn.RecipientID == userA) {
			cp := *conn
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConnectionRepo) Update(_ context.Context, req *model.ConnectionRequest) error {
	cp := *req
	m.conns[req.RequestID] = &cp
	return nil
}

func (m *mockConnectionRepo) ListPendingForRecipient(_ context.Context, recipientID string, offset, limit int) ([]model.ConnectionRequest, int64, error) {
	var out []model.ConnectionRequest
	for _, conn := range m.conns {
		if conn.RecipientID == recipientID && conn.Status == model.ConnectionPending {
			out = append(out, *conn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockConnectionRepo) ListAcceptedForUser(_ context.Context, userID string, offset, limit int) ([]model.ConnectionRequest, int64, error) {
	var out []model.ConnectionRequest
	for _, conn := range m.conns {
		if conn.Status == model.ConnectionAccepted &&
			(conn.RequesterID == userID || conn.RecipientID == userID) {
			out = append(out, *conn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

// ── 通知 ──

type mockNotificationRepo struct {
	notifs map[string]*model.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, notif *model.Notification) error {
	fillAudit(&notif.NotificationID, &notif.CreatedAt)
	cp := *notif
	m.notifs[notif.NotificationID] = &cp
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	notif, ok := m.notifs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *notif
	return &cp, nil
}

func (m *mockNotificationRepo) List(_ context.Context, userID string, filters *repository.NotificationListFilters, offset, limit int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, notif := range m.notifs {
		if notif.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Category != "" && notif.Category != filters.Category {
				continue
			}
			if filters.IsRead != nil && notif.IsRead != *filters.IsRead {
				continue
			}
			if filters.Keyword != "" &&
				!strings.Contains(notif.Title, filters.Keyword) &&
				!strings.Contains(notif.Body, filters.Keyword) {
				continue
			}
		}
		out = append(out, *notif)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if notif, ok := m.notifs[id]; ok {
		notif.IsRead = true
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, notif := range m.notifs {
		if notif.UserID == userID && !notif.IsRead {
			notif.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id string) error {
	delete(m.notifs, id)
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, notif := range m.notifs {
		if notif.UserID == userID && !notif.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for id, notif := range m.notifs {
		if notif.IsRead && notif.CreatedAt.Before(cutoff) {
			delete(m.notifs, id)
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.notifs)), nil
}

// ── 推送出口 ──

type deliveredFrame struct {
	UserID  string
	Payload interface{}
}

type mockNotifier struct {
	online     map[string]bool
	delivered  []deliveredFrame
	broadcasts []interface{}
}

func newMockNotifier(onlineUsers ...string) *mockNotifier {
	online := map[string]bool{}
	for _, userID := range onlineUsers {
		online[userID] = true
	}
	return &mockNotifier{online: online}
}

func (m *mockNotifier) Deliver(userID string, payload interface{}) bool {
	m.delivered = append(m.delivered, deliveredFrame{UserID: userID, Payload: payload})
	return m.online[userID]
}

func (m *mockNotifier) Broadcast(payload interface{}) int {
	m.broadcasts = append(m.broadcasts, payload)
	return len(m.online)
}

func (m *mockNotifier) Online() int {
	return len(m.online)
}

// seedUser 往内存仓库预置一个用户
func seedUser(t *testing.T, repo *repository.Repository, id, name string) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       id,
		Name:         name,
		Email:        id + "@test.local",
		PasswordHash: "$2a$10$placeholder",
		ProfileType:  model.ProfileStartup,
		Role:         model.RoleUser,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}
	return user
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
