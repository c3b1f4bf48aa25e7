package signin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/club-users/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Signin(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSigninHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantResponse   map[string]any
	}{
		{
			name:           "registered email",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantResponse:   map[string]any{"success": true, "message": "Sign in successful."},
		},
		{
			name:           "missing body",
			body:           "",
			wantStatusCode: http.StatusBadRequest,
			wantResponse:   map[string]any{"error": "Invalid data format."},
		},
		{
			name:           "null body",
			body:           "null",
			wantStatusCode: http.StatusBadRequest,
			wantResponse:   map[string]any{"error": "Invalid data format."},
		},
		{
			name:           "json array body",
			body:           `["a@x.com"]`,
			wantStatusCode: http.StatusBadRequest,
			wantResponse:   map[string]any{"error": "Invalid data format."},
		},
		{
			name:           "missing email",
			body:           `{"name":"a"}`,
			wantStatusCode: http.StatusBadRequest,
			wantResponse:   map[string]any{"error": "Email is required."},
		},
		{
			name:           "unregistered email",
			body:           `{"email":"a@x.com"}`,
			mockErr:        fmt.Errorf("services.users.Signin: %w", storage.ErrUserNotFound),
			callService:    true,
			wantStatusCode: http.StatusNotFound,
			wantResponse:   map[string]any{"error": "Email not registered. Please sign up."},
		},
		{
			name:           "store failure",
			body:           `{"email":"a@x.com"}`,
			mockErr:        errors.New("connection reset by peer"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantResponse:   map[string]any{"error": "connection reset by peer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.callService {
				serviceMock.On("Signin", mock.Anything, "a@x.com").Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/signin", bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantResponse, got)

			serviceMock.AssertExpectations(t)
		})
	}
}
