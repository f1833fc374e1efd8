package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFail_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", pkgerrors.Validation("Invalid day"), http.StatusBadRequest, "Invalid day"},
		{"conflict keeps 400", pkgerrors.Conflict("Karkun is already in the roster"), http.StatusBadRequest, "Karkun is already in the roster"},
		{"not found", fmt.Errorf("wrap: %w", pkgerrors.NotFound("Duty roster not found")), http.StatusNotFound, "Duty roster not found"},
		{"forbidden", pkgerrors.Forbidden("Zone is not visible"), http.StatusForbidden, "Zone is not visible"},
		{"unhandled", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, internalErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Fail(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态码 %d，实际=%d", tt.wantStatus, w.Code)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("解析响应失败: %v", err)
			}
			if resp.Success {
				t.Error("错误响应 success 应为 false")
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("期望 message=%q，实际=%q", tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestFail_InternalErrorAttachedToContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("db down"))

	if len(c.Errors) != 1 {
		t.Fatalf("期望原始错误写入 gin 上下文，实际 %d 条", len(c.Errors))
	}
}
