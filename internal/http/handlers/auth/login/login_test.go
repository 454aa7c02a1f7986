package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Authenticate(ctx context.Context, username, password string) (*models.UserInfo, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserInfo), args.Error(1)
}

// MockMaker реализует интерфейс login.TokenMaker
type MockMaker struct {
	mock.Mock
}

func (m *MockMaker) GenerateToken(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	info := &models.UserInfo{Username: "alice"}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(s *MockService, m *MockMaker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"username":"alice","password":"secret1"}`,
			setupMocks: func(s *MockService, m *MockMaker) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").Return(info, nil)
				m.On("GenerateToken", "alice").Return("jwt-token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name: "неверный пароль",
			body: `{"username":"alice","password":"wrong"}`,
			setupMocks: func(s *MockService, _ *MockMaker) {
				s.On("Authenticate", mock.Anything, "alice", "wrong").
					Return(nil, apperr.ErrUnauthenticated)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid username or password"`,
		},
		{
			name:           "пустое тело запроса",
			body:           `{}`,
			setupMocks:     func(_ *MockService, _ *MockMaker) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Username is a required field`,
		},
		{
			name: "ошибка хранилища",
			body: `{"username":"alice","password":"secret1"}`,
			setupMocks: func(s *MockService, _ *MockMaker) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to authenticate"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockMaker := new(MockMaker)
			tt.setupMocks(mockService, mockMaker)

			handler := New(logger, mockService, mockMaker)

			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockMaker.AssertExpectations(t)
		})
	}
}
