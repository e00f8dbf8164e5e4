package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	tokens map[uint64]string
}

func newAPI(t *testing.T, svc BookingService) *apiClient {
	verifier := common.NewTokenVerifier("test-secret", "gocoach")
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(common.AuthMiddleware(verifier))
	NewHandler(svc, 20, 100, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(api)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	tokens := make(map[uint64]string)
	for id, u := range directoryUsers {
		tok, err := verifier.GenerateToken(id, u.Role, time.Hour)
		require.NoError(t, err)
		tokens[id] = tok
	}
	return &apiClient{t: t, server: server, tokens: tokens}
}

func (c *apiClient) do(userID uint64, method, path string, body interface{}) (int, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.server.URL+"/api/v1"+path, reader)
	require.NoError(c.t, err)
	if tok, ok := c.tokens[userID]; ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func TestHandler_BookingScenario(t *testing.T) {
	f := newFixture(t, Options{})
	api := newAPI(t, f.svc)

	slot := map[string]interface{}{
		"request_id":     10,
		"coach_user_id":  3,
		"player_user_id": 2,
		"start_at":       testNow.Add(24 * time.Hour).Format(time.RFC3339),
		"end_at":         testNow.Add(25 * time.Hour).Format(time.RFC3339),
	}

	status, body := api.do(1, http.MethodPost, "/meetings", slot)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dbmysql.Meeting
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, common.MeetingScheduled, created.Status)

	overlapping := map[string]interface{}{
		"request_id":     12,
		"coach_user_id":  3,
		"player_user_id": 4,
		"start_at":       testNow.Add(24*time.Hour + 30*time.Minute).Format(time.RFC3339),
		"end_at":         testNow.Add(25*time.Hour + 30*time.Minute).Format(time.RFC3339),
	}
	status, body = api.do(1, http.MethodPost, "/meetings", overlapping)
	assert.Equal(t, http.StatusConflict, status)
	var apiErr common.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &apiErr))
	assert.Equal(t, "scheduling_conflict", apiErr.Code)

	status, body = api.do(1, http.MethodPatch, fmt.Sprintf("/meetings/%d/cancel", created.ID), nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = api.do(1, http.MethodPost, "/meetings", overlapping)
	assert.Equal(t, http.StatusCreated, status, string(body))

	status, _ = api.do(1, http.MethodPatch, fmt.Sprintf("/meetings/%d/cancel", created.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status, "cancelled is terminal")
}

func TestHandler_CompleteBody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	api := newAPI(t, f.svc)

	complete := func(id uint64, body io.Reader) (int, dbmysql.Meeting) {
		req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/meetings/%d/complete", api.server.URL, id), body)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+api.tokens[1])
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var m dbmysql.Meeting
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
		}
		return resp.StatusCode, m
	}

	t.Run("chunked body keeps notes", func(t *testing.T) {
		m, err := f.svc.Create(ctx, admin, booking(3, 2, 24*time.Hour, time.Hour))
		require.NoError(t, err)

		// Wrapping the reader hides its length, so the client streams it chunked.
		status, got := complete(m.ID, io.NopCloser(strings.NewReader(`{"notes":"footwork drills"}`)))
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, common.MeetingCompleted, got.Status)
		assert.Equal(t, "footwork drills", got.Notes)
	})

	t.Run("empty body", func(t *testing.T) {
		m, err := f.svc.Create(ctx, admin, booking(3, 2, 48*time.Hour, time.Hour))
		require.NoError(t, err)

		status, got := complete(m.ID, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, common.MeetingCompleted, got.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		m, err := f.svc.Create(ctx, admin, booking(3, 2, 72*time.Hour, time.Hour))
		require.NoError(t, err)

		status, _ := complete(m.ID, io.NopCloser(strings.NewReader(`{"notes":`)))
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t, Options{})
	api := newAPI(t, f.svc)

	tests := []struct {
		name   string
		userID uint64
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "no token", userID: 0, method: http.MethodGet, path: "/meetings", want: http.StatusUnauthorized},
		{name: "player lists all", userID: 2, method: http.MethodGet, path: "/meetings", want: http.StatusForbidden},
		{name: "player books", userID: 2, method: http.MethodPost, path: "/meetings", body: map[string]interface{}{
			"request_id": 10, "coach_user_id": 3, "player_user_id": 2,
			"start_at": testNow.Add(24 * time.Hour).Format(time.RFC3339), "end_at": testNow.Add(25 * time.Hour).Format(time.RFC3339),
		}, want: http.StatusForbidden},
		{name: "unknown field", userID: 1, method: http.MethodPost, path: "/meetings", body: map[string]interface{}{"room": "a"}, want: http.StatusBadRequest},
		{name: "missing request", userID: 1, method: http.MethodPost, path: "/meetings", body: map[string]interface{}{
			"request_id": 99, "coach_user_id": 3, "player_user_id": 2,
			"start_at": testNow.Add(24 * time.Hour).Format(time.RFC3339), "end_at": testNow.Add(25 * time.Hour).Format(time.RFC3339),
		}, want: http.StatusNotFound},
		{name: "past slot", userID: 1, method: http.MethodPost, path: "/meetings", body: map[string]interface{}{
			"request_id": 10, "coach_user_id": 3, "player_user_id": 2,
			"start_at": testNow.Add(-2 * time.Hour).Format(time.RFC3339), "end_at": testNow.Add(-time.Hour).Format(time.RFC3339),
		}, want: http.StatusBadRequest},
		{name: "unknown meeting", userID: 1, method: http.MethodGet, path: "/meetings/404", want: http.StatusNotFound},
		{name: "bad page", userID: 2, method: http.MethodGet, path: "/meetings/mine?page=0", want: http.StatusBadRequest},
		{name: "bad upcoming", userID: 2, method: http.MethodGet, path: "/meetings/mine?upcoming=soon", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(tt.userID, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}

func TestHandler_ListMine(t *testing.T) {
	f := newFixture(t, Options{})
	api := newAPI(t, f.svc)

	_, err := f.svc.Create(t.Context(), admin, booking(3, 2, 24*time.Hour, time.Hour))
	require.NoError(t, err)

	status, body := api.do(2, http.MethodGet, "/meetings/mine?upcoming=true", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp MeetingListResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Len(t, resp.Meetings, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, 20, resp.Pagination.Limit)

	status, body = api.do(4, http.MethodGet, "/meetings/mine", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Empty(t, resp.Meetings)
}
