package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/service"
)

func doRespondError(t *testing.T, err error) (*httptest.ResponseRecorder, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	respondError(c, zap.NewNop(), err)

	var body struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Success {
		t.Error("错误响应 success 应为 false")
	}
	if body.Error == nil {
		t.Fatal("错误响应应包含 error 字段")
	}
	return w, body.Error.Code
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"邮箱已存在", service.ErrEmailExists, http.StatusConflict, 11001},
		{"凭证无效", service.ErrInvalidCredentials, http.StatusUnauthorized, 11002},
		{"机会不存在", service.ErrOpportunityNotFound, http.StatusNotFound, 21001},
		{"重复申请", service.ErrAlreadyApplied, http.StatusConflict, 21006},
		{"活动满员", service.ErrEventFull, http.StatusConflict, 23004},
		{"不能加自己", service.ErrSelfConnection, http.StatusBadRequest, 26003},
		{"通知不存在", service.ErrNotificationNotFound, http.StatusNotFound, 27001},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, code := doRespondError(t, tc.err)
			if w.Code != tc.wantStatus {
				t.Errorf("HTTP 状态期望 %d，得到 %d", tc.wantStatus, w.Code)
			}
			if code != tc.wantCode {
				t.Errorf("错误码期望 %d，得到 %d", tc.wantCode, code)
			}
		})
	}
}

func TestRespondErrorWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("上层包装"), service.ErrEventFull)
	w, code := doRespondError(t, wrapped)
	if w.Code != http.StatusConflict || code != 23004 {
		t.Errorf("包装后的业务错误仍应命中映射，得到 %d/%d", w.Code, code)
	}
}

func TestRespondErrorUnknown(t *testing.T) {
	w, code := doRespondError(t, errors.New("数据库抽风"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("未登记错误应返回 500，得到 %d", w.Code)
	}
	if code != 50000 {
		t.Errorf("未登记错误码应为 50000，得到 %d", code)
	}
}
