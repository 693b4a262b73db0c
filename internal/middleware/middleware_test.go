package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("a"), mark("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestAuth(t *testing.T) {
	tokens, err := config.NewTokensWithSecret([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	token, err := tokens.Sign("7")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var got *config.SessionClaims
	h := Auth(logger, tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionClaims(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		query  string
		want   bool
	}{
		{"no token", "", "", false},
		{"bearer", "Bearer " + token, "", true},
		{"query", "", "?token=" + token, true},
		{"garbage", "Bearer abc.def.ghi", "", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got = nil
			r := httptest.NewRequest(http.MethodGet, "/game/7"+test.query, nil)
			if test.header != "" {
				r.Header.Set("Authorization", test.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			if test.want {
				require.NotNil(t, got)
				assert.Equal(t, "7", got.SessionId)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
