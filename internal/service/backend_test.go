package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"customer-insights/internal/config"
	"customer-insights/internal/model"
	"customer-insights/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, h http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewBackend(config.BackendConfig{BaseURL: srv.URL}, srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHealth(t *testing.T) {
	ok := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	})
	res := ok.Health(context.Background())
	assert.True(t, res.Ready)
	assert.Equal(t, ReasonNone, res.Reason)

	down := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	res = down.Health(context.Background())
	assert.False(t, res.Ready)
	assert.Equal(t, ReasonStatus, res.Reason)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewBackend(config.BackendConfig{BaseURL: url}, nil).Health(context.Background())
	assert.False(t, res.Ready)
	assert.Equal(t, ReasonNetwork, res.Reason)
	assert.Error(t, res.Err)
}

func TestLoginSendsFormAndReturnsSession(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ana@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
	})

	s, err := b.Login(context.Background(), "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, session.Session{AccessToken: "tok", TokenType: "bearer"}, s)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"detail", 401, `{"detail":"Incorrect email or password"}`, KindAuth, "Incorrect email or password"},
		{"message", 400, `{"message":"Inactive user"}`, KindAuth, "Inactive user"},
		{"empty json", 400, `{}`, KindAuth, msgLoginUnknown},
		{"forbidden", 403, `{"detail":"Account locked"}`, KindAuth, "Account locked"},
		{"server json", 500, `{"detail":"Database unavailable"}`, KindServer, "Database unavailable"},
		{"unprocessable", 422, `{"detail":"Bad form"}`, KindServer, "Bad form"},
		{"not json", 502, `<html>bad gateway</html>`, KindMalformed, msgLoginUnknown},
		{"ok without token", 200, `{"token_type":"bearer"}`, KindMalformed, msgLoginUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := b.Login(context.Background(), "u", "p")
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.message, Message(err))
			assert.Equal(t, tt.status == http.StatusUnauthorized, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestRegister(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in model.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Ana Ruiz", in.FullName)
		assert.Equal(t, "pw", in.ConfirmPassword)
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
	})

	msg, err := b.Register(context.Background(), model.RegisterRequest{
		Email: "ana@example.com", FullName: "Ana Ruiz", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "User created", msg)
}

func TestRegisterValidationDetailsAreJoined(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"},
				{"loc": []string{"body", "password"}, "msg": "ensure this value has at least 8 characters"},
			},
		})
	})

	_, err := b.Register(context.Background(), model.RegisterRequest{Email: "x"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "value is not a valid email address, ensure this value has at least 8 characters", Message(err))
}

func TestRegisterConflict(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})

	_, err := b.Register(context.Background(), model.RegisterRequest{})
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "Email already registered", Message(err))
}

func TestUploadSendsMultipartWithAuthorization(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/data-ingestion/upload-csv-excel/", r.URL.Path)
		assert.Equal(t, "bearer tok", r.Header.Get("Authorization"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])
		part, err := mr.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		assert.Equal(t, "clients.csv", part.FileName())
		assert.Equal(t, "text/csv", part.Header.Get("Content-Type"))
		data, _ := io.ReadAll(part)
		assert.Equal(t, "name,potential_category\nAna,A\n", string(data))
		_, err = mr.NextPart()
		assert.ErrorIs(t, err, io.EOF)

		_, _ = io.WriteString(w, `{"message":"Processed 1 rows","data_preview":[{"name":"Ana","potential_category":"A"}]}`)
	})

	res, err := b.Upload(context.Background(),
		model.SelectedFile{Name: "clients.csv", ContentType: "text/csv", Data: []byte("name,potential_category\nAna,A\n")},
		session.Session{AccessToken: "tok", TokenType: "bearer"})
	require.NoError(t, err)
	assert.Equal(t, "Processed 1 rows", res.Message)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "A", res.Rows[0].Cell("potential_category"))
}

func TestUploadOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
		unauth  bool
	}{
		{"unauthorized", 401, `{"detail":"Could not validate credentials"}`, KindAuth, msgUnauthorized, true},
		{"server detail", 400, `{"detail":"Unsupported columns"}`, KindServer, "Unsupported columns", false},
		{"server message", 500, `{"message":"boom"}`, KindServer, "boom", false},
		{"server empty", 500, `{}`, KindServer, msgServerUnknown, false},
		{"not json", 500, `Internal Server Error`, KindMalformed, msgUnexpected, false},
		{"ok not json", 200, `oops`, KindMalformed, msgUnexpected, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := b.Upload(context.Background(), model.SelectedFile{Name: "a.csv", ContentType: "text/csv"}, session.Session{AccessToken: "t", TokenType: "bearer"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.message, Message(err))
			assert.Equal(t, tt.unauth, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestUploadNetworkErrorHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	b := NewBackend(config.BackendConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := b.Upload(context.Background(), model.SelectedFile{Name: "a.csv"}, session.Session{AccessToken: "t"})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, msgNetwork, Message(err))
}
