package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

func newTestEventService(onlineUsers ...string) (*EventService, *repository.Repository, *mockNotifier) {
	repo := newMockRepository()
	notifier := newMockNotifier(onlineUsers...)
	notification := NewNotificationService(repo, notifier, zap.NewNop())
	return NewEventService(repo, notification, zap.NewNop()), repo, notifier
}

func createEvent(t *testing.T, svc *EventService, organizerID string, startsIn time.Duration, capacity int) *dto.EventResponse {
	t.Helper()
	starts := time.Now().Add(startsIn)
	event, err := svc.Create(context.Background(), organizerID, &dto.CreateEventRequest{
		Title:       "Atelier financement PME",
		Description: "desc",
		Type:        model.EventWorkshop,
		StartsAt:    starts.Format(time.RFC3339),
		EndsAt:      starts.Add(2 * time.Hour).Format(time.RFC3339),
		IsOnline:    true,
		Capacity:    capacity,
	})
	if err != nil {
		t.Fatalf("创建活动失败: %v", err)
	}
	return event
}

func TestCreateEventInvalidTime(t *testing.T) {
	svc, _, _ := newTestEventService()
	starts := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), "organizer", &dto.CreateEventRequest{
		Title:       "Titre valide",
		Description: "desc",
		Type:        model.EventWebinar,
		StartsAt:    starts.Format(time.RFC3339),
		EndsAt:      starts.Add(-time.Hour).Format(time.RFC3339), // 结束早于开始
	})
	if !errors.Is(err, ErrInvalidEventTime) {
		t.Errorf("期望 ErrInvalidEventTime，得到 %v", err)
	}
}

func TestRegisterNotifiesOrganizer(t *testing.T) {
	svc, repo, _ := newTestEventService()
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	seedUser(t, repo, "attendee", "Attendee")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 0)

	reg, err := svc.Register(ctx, "attendee", event.ID)
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if reg.Status != model.RegistrationActive {
		t.Errorf("报名状态不符: %q", reg.Status)
	}

	notifs, total, _ := repo.Notification.List(ctx, "organizer", nil, 0, 10)
	if total != 1 || notifs[0].Category != model.NotificationSystem {
		t.Errorf("组织者应收到报名通知，得到 total=%d %+v", total, notifs)
	}
}

func TestRegisterCapacityFull(t *testing.T) {
	svc, repo, _ := newTestEventService()
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 1)

	if _, err := svc.Register(ctx, "first", event.ID); err != nil {
		t.Fatalf("首个报名失败: %v", err)
	}
	if _, err := svc.Register(ctx, "second", event.ID); !errors.Is(err, ErrEventFull) {
		t.Errorf("期望 ErrEventFull，得到 %v", err)
	}
}

func TestRegisterTwice(t *testing.T) {
	svc, repo, _ := newTestEventService()
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 0)

	if _, err := svc.Register(ctx, "attendee", event.ID); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if _, err := svc.Register(ctx, "attendee", event.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("期望 ErrAlreadyRegistered，得到 %v", err)
	}
}

func TestCancelAndReRegister(t *testing.T) {
	svc, repo, _ := newTestEventService()
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 0)

	if _, err := svc.Register(ctx, "attendee", event.ID); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if err := svc.CancelRegistration(ctx, "attendee", event.ID); err != nil {
		t.Fatalf("CancelRegistration 失败: %v", err)
	}

	// 取消后重复取消报错
	if err := svc.CancelRegistration(ctx, "attendee", event.ID); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("期望 ErrRegistrationNotFound，得到 %v", err)
	}

	// 取消后可重新报名，复用原记录
	reg, err := svc.Register(ctx, "attendee", event.ID)
	if err != nil {
		t.Fatalf("重新报名失败: %v", err)
	}
	if reg.Status != model.RegistrationActive {
		t.Errorf("重新报名后应为 registered，得到 %q", reg.Status)
	}
}

func TestRegisterPastEvent(t *testing.T) {
	svc, repo, _ := newTestEventService()
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 0)

	// 把活动改到过去
	raw, _ := repo.Event.GetByID(ctx, event.ID)
	raw.StartsAt = time.Now().Add(-2 * time.Hour)
	raw.EndsAt = time.Now().Add(-time.Hour)
	if err := repo.Event.Update(ctx, raw); err != nil {
		t.Fatalf("更新活动失败: %v", err)
	}

	if _, err := svc.Register(ctx, "attendee", event.ID); !errors.Is(err, ErrEventStarted) {
		t.Errorf("期望 ErrEventStarted，得到 %v", err)
	}
}

func TestSendRemindersOnce(t *testing.T) {
	svc, repo, _ := newTestEventService("attendee")
	ctx := context.Background()
	seedUser(t, repo, "organizer", "Organizer")
	seedUser(t, repo, "attendee", "Attendee")

	// 12 小时后开始，落在提醒窗口内
	event := createEvent(t, svc, "organizer", 12*time.Hour, 0)
	if _, err := svc.Register(ctx, "attendee", event.ID); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}

	sent, err := svc.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders 失败: %v", err)
	}
	if sent != 1 {
		t.Errorf("期望发送 1 条提醒，得到 %d", sent)
	}

	notifs, _, _ := repo.Notification.List(ctx, "attendee", &repository.NotificationListFilters{
		Category: model.NotificationEventReminder,
	}, 0, 10)
	if len(notifs) != 1 {
		t.Errorf("期望 1 条提醒通知，得到 %d", len(notifs))
	}

	// 再次执行不重复提醒
	sent, _ = svc.SendReminders(ctx)
	if sent != 0 {
		t.Errorf("重复执行应发送 0 条，得到 %d", sent)
	}
}

func TestExportICS(t *testing.T) {
	svc, repo, _ := newTestEventService()
	seedUser(t, repo, "organizer", "Organizer")
	event := createEvent(t, svc, "organizer", 48*time.Hour, 0)

	out, err := svc.ExportICS(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ExportICS 失败: %v", err)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "Atelier financement PME", "END:VCALENDAR"} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS 缺少 %q", want)
		}
	}
}
