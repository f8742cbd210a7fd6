package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mmeshcher/shortslug/internal/service/mocks"
)

func TestPingHandler(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		statusCode int
	}{
		{name: "storage reachable", pingErr: nil, statusCode: http.StatusOK},
		{name: "storage down", pingErr: errors.New("dial tcp: connection refused"), statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			store.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			h := newHandlerWithStore(store)
			result, _ := serve(t, h, httptest.NewRequest(http.MethodGet, "/ping", nil))

			assert.Equal(t, tt.statusCode, result.StatusCode)
		})
	}
}
