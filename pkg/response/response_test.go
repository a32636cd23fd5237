package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp
}

func TestOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，得到 %d", w.Code)
	}
	resp := decode(t, w)
	if !resp.Success || resp.Error != nil {
		t.Error("成功响应不应携带 error")
	}
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, 21006, "已申请过该机会")

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，得到 %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Success {
		t.Error("错误响应 success 应为 false")
	}
	if resp.Error == nil || resp.Error.Code != 21006 {
		t.Errorf("错误码不符: %+v", resp.Error)
	}
}

func TestOKPageTotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}

	for _, tc := range cases {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		OKPage(c, []string{}, tc.total, 1, tc.pageSize)

		resp := decode(t, w)
		if resp.Meta == nil || resp.Meta.Pagination == nil {
			t.Fatal("分页响应应携带 meta.pagination")
		}
		if got := resp.Meta.Pagination.TotalPages; got != tc.want {
			t.Errorf("total=%d pageSize=%d 期望 %d 页，得到 %d", tc.total, tc.pageSize, tc.want, got)
		}
	}
}
