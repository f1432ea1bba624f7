package errno

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConvertErr(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"errno passes through", Forbidden, http.StatusForbidden, "Forbidden"},
		{"wrapped errno", fmt.Errorf("service: %w", InvalidArgument.WithMessage("无效的视频ID")), http.StatusBadRequest, "InvalidArgument"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Timeout"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "NotFound"},
		{"driver error", errors.New("dial tcp 127.0.0.1:3306: connection refused"), http.StatusInternalServerError, "ServiceErr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertErr(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}
}

func TestErrNoIsComparesCode(t *testing.T) {
	err := NotFound.WithMessage("视频不存在")
	assert.True(t, errors.Is(err, NotFound))
	assert.False(t, errors.Is(err, Forbidden))
}

func TestServiceErrHidesCause(t *testing.T) {
	cause := errors.New("Error 1045: Access denied for user 'root'")
	got := ConvertErr(cause)
	assert.Equal(t, "服务器内部错误", got.Msg)
	assert.ErrorIs(t, got, cause)
}
