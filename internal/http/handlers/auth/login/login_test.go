package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finconnect/portal/internal/models"
	sessionservice "github.com/finconnect/portal/internal/services/session"
)

type SessionMock struct {
	mock.Mock
}

func (m *SessionMock) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *SessionMock) User() *models.User {
	args := m.Called()
	user, _ := args.Get(0).(*models.User)
	return user
}

func (m *SessionMock) Token() string {
	args := m.Called()
	return args.String(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	demoUser := &models.User{
		ID:    "user-123",
		Email: "user@example.com",
		Name:  "Demo User",
		Role:  models.RoleDeveloper,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockDest       string
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantData       map[string]any
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user@example.com", Password: "password"},
			mockDest:       "/dashboard",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantData: map[string]any{
				"token":       "tok-abc",
				"destination": "/dashboard",
			},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:           "validation error - malformed email",
			requestBody:    Request{Email: "not-an-email", Password: "password"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Email must be a valid email",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Email: "user@example.com", Password: "wrong"},
			mockErr:        sessionservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid email or password",
		},
		{
			name:           "operation already in flight",
			requestBody:    Request{Email: "user@example.com", Password: "password"},
			mockErr:        sessionservice.ErrOperationInFlight,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "another operation is in progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionMock := new(SessionMock)
			handler := New(newNoopLogger(), sessionMock)

			if req, ok := tt.requestBody.(Request); ok && req.Password != "" && req.Email == "user@example.com" {
				sessionMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockDest, tt.mockErr).Once()
			}
			if tt.mockErr == nil && tt.wantData != nil {
				sessionMock.On("User").Return(demoUser)
				sessionMock.On("Token").Return("tok-abc")
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, demoUser.Email, user["email"])
			}

			sessionMock.AssertExpectations(t)
		})
	}
}
