package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/presenter"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/presenter/presentertest"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(),
		presentertest.NewManualScheduler(), presenter.DefaultOptions())

	server := httptest.NewServer(NewRouter(NewHandlers(logger, manager, time.Hour), nil))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return server, &http.Client{Jar: jar}
}

func doRequest(t *testing.T, client *http.Client, method, url string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func decodeView(t *testing.T, body []byte) entity.GameView {
	t.Helper()

	var view entity.GameView
	require.NoError(t, json.Unmarshal(body, &view))

	return view
}

func TestPing(t *testing.T) {
	server, client := newTestServer(t)

	status, body := doRequest(t, client, http.MethodGet, server.URL+"/ping")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(body))
}

func TestIndexPage(t *testing.T) {
	server, client := newTestServer(t)

	status, body := doRequest(t, client, http.MethodGet, server.URL+"/")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "<title>Tic-tac-toe</title>")
}

func TestGameAPI(t *testing.T) {
	t.Run("Get starts a game and sets the cookie", func(t *testing.T) {
		server, client := newTestServer(t)

		status, body := doRequest(t, client, http.MethodGet, server.URL+"/api/game")

		require.Equal(t, http.StatusOK, status)
		view := decodeView(t, body)
		assert.NotEmpty(t, view.SessionID)
		assert.Equal(t, "Next player: X", view.StatusText)

		// When: the game is fetched again with the cookie
		_, body = doRequest(t, client, http.MethodGet, server.URL+"/api/game")

		// Then: the same session is returned
		assert.Equal(t, view.SessionID, decodeView(t, body).SessionID)
	})

	t.Run("Play to a win, undo and restart", func(t *testing.T) {
		// Given: a started game
		server, client := newTestServer(t)
		doRequest(t, client, http.MethodGet, server.URL+"/api/game")

		// When: X takes the top row
		var body []byte
		for _, cell := range []int{0, 4, 1, 5, 2} {
			var status int
			status, body = doRequest(t, client, http.MethodPost, fmt.Sprintf("%s/api/game/cells/%d", server.URL, cell))
			require.Equal(t, http.StatusOK, status, "cell %d", cell)
		}

		// Then: X has won and the banner is up
		view := decodeView(t, body)
		assert.Equal(t, "Winner: X", view.StatusText)
		assert.Equal(t, "WINNER: PLAYER X", view.Presentation.Banner)

		// When: another cell is selected
		status, body := doRequest(t, client, http.MethodPost, server.URL+"/api/game/cells/8")

		// Then: the move is rejected with the unchanged game
		assert.Equal(t, http.StatusConflict, status)
		var rejected errorResponse
		require.NoError(t, json.Unmarshal(body, &rejected))
		assert.Equal(t, apperror.ErrGameFinished.Error(), rejected.Error)
		require.NotNil(t, rejected.Game)
		assert.Equal(t, entity.EmptyCell, rejected.Game.Board[8])

		// When: the winning move is undone
		status, body = doRequest(t, client, http.MethodPost, server.URL+"/api/game/undo")

		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Next player: X", decodeView(t, body).StatusText)

		// When: the game is restarted
		status, body = doRequest(t, client, http.MethodPost, server.URL+"/api/game/restart")

		require.Equal(t, http.StatusOK, status)
		view = decodeView(t, body)
		assert.Equal(t, entity.Board{}, view.Board)
		assert.Empty(t, view.Presentation.Banner)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		server, client := newTestServer(t)
		doRequest(t, client, http.MethodGet, server.URL+"/api/game")

		status, _ := doRequest(t, client, http.MethodPost, server.URL+"/api/game/cells/9")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("Nothing to undo", func(t *testing.T) {
		server, client := newTestServer(t)
		doRequest(t, client, http.MethodGet, server.URL+"/api/game")

		status, _ := doRequest(t, client, http.MethodPost, server.URL+"/api/game/undo")

		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("No session", func(t *testing.T) {
		server, client := newTestServer(t)

		status, _ := doRequest(t, client, http.MethodPost, server.URL+"/api/game/cells/0")

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Close forgets the game", func(t *testing.T) {
		server, client := newTestServer(t)
		_, body := doRequest(t, client, http.MethodGet, server.URL+"/api/game")
		first := decodeView(t, body)

		status, _ := doRequest(t, client, http.MethodDelete, server.URL+"/api/game")
		require.Equal(t, http.StatusNoContent, status)

		_, body = doRequest(t, client, http.MethodGet, server.URL+"/api/game")
		assert.NotEqual(t, first.SessionID, decodeView(t, body).SessionID)
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid cell", apperror.ErrInvalidCell, http.StatusUnprocessableEntity},
		{"occupied", apperror.ErrCellOccupied, http.StatusConflict},
		{"finished", apperror.ErrGameFinished, http.StatusConflict},
		{"nothing to undo", fmt.Errorf("wrapped: %w", apperror.ErrNothingToUndo), http.StatusConflict},
		{"not found", apperror.ErrSessionNotFound, http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestNewSessionCookie(t *testing.T) {
	cookie := NewSessionCookie("abc", time.Hour)

	assert.Equal(t, SessionCookie, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cookie.Expires, time.Minute)
}
