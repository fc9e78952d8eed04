package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const SessionCookie = "session_id"

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GetGame(w http.ResponseWriter, r *http.Request)
	SelectCell(w http.ResponseWriter, r *http.Request)
	Undo(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	CloseGame(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	Open(ctx context.Context, id string) (*entity.GameView, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.GameView, error)
	Undo(ctx context.Context, id string) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
	Close(ctx context.Context, id string) error
}

type errorResponse struct {
	Error string           `json:"error"`
	Game  *entity.GameView `json:"game,omitempty"`
}

type handlers struct {
	logger     *slog.Logger
	game       gameUseCase
	sessionTTL time.Duration
}

func NewHandlers(logger *slog.Logger, game gameUseCase, sessionTTL time.Duration) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		game:       game,
		sessionTTL: sessionTTL,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GetGame - returns the caller's game, starting one when the cookie is missing or stale.
func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetGame")

	sessionID := SessionID(r)

	view, err := that.game.Open(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to open game", "error", err)
		that.writeError(w, err, nil)
		return
	}

	if view.SessionID != sessionID {
		SetSessionCookie(w, view.SessionID, that.sessionTTL)
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) SelectCell(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(mux.Vars(r)["cell"])
	if err != nil {
		that.writeError(w, apperror.ErrInvalidCell, nil)
		return
	}

	view, err := that.game.SelectCell(r.Context(), SessionID(r), cell)
	that.respond(w, "SelectCell", view, err)
}

func (that *handlers) Undo(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.Undo(r.Context(), SessionID(r))
	that.respond(w, "Undo", view, err)
}

func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.Restart(r.Context(), SessionID(r))
	that.respond(w, "Restart", view, err)
}

func (that *handlers) CloseGame(w http.ResponseWriter, r *http.Request) {
	if err := that.game.Close(r.Context(), SessionID(r)); err != nil {
		that.respond(w, "CloseGame", nil, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) respond(w http.ResponseWriter, method string, view *entity.GameView, err error) {
	if err != nil {
		if !errors.Is(err, apperror.ErrRejected) && !errors.Is(err, apperror.ErrSessionNotFound) {
			that.logger.Error("request failed", "method", method, "error", err)
		}

		that.writeError(w, err, view)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) writeError(w http.ResponseWriter, err error, view *entity.GameView) {
	status := StatusCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message, Game: view})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// StatusCode - maps a game error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func SessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func SetSessionCookie(w http.ResponseWriter, sessionID string, ttl time.Duration) {
	http.SetCookie(w, NewSessionCookie(sessionID, ttl))
}

// NewSessionCookie - builds the cookie that carries the session id for ttl.
func NewSessionCookie(sessionID string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
