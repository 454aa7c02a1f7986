package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, username string, externalID int64) (int, error) {
	args := m.Called(ctx, username, externalID)
	return args.Int(0), args.Error(1)
}

func favoriteRequest(username, id string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/users/"+username+"/songs/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("username", username)
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "alice", int64(42)).Return(7, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_favorite":7`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid song id"`,
		},
		{
			name: "песни нет в избранном",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "alice", int64(42)).
					Return(0, apperr.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"song is not in favorites"`,
		},
		{
			name: "ошибка хранилища",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "alice", int64(42)).
					Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to remove favorite"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := favoriteRequest("alice", tt.id)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
