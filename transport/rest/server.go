package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

//go:embed static
var staticFiles embed.FS

// NewRouter - routes the game API, the page and, when ws is set, the websocket endpoint.
func NewRouter(handlers Handlers, ws http.Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/ping", handlers.PingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/game").Subrouter()
	api.HandleFunc("", handlers.GetGame).Methods(http.MethodGet)
	api.HandleFunc("", handlers.CloseGame).Methods(http.MethodDelete)
	api.HandleFunc("/cells/{cell:[0-9]+}", handlers.SelectCell).Methods(http.MethodPost)
	api.HandleFunc("/undo", handlers.Undo).Methods(http.MethodPost)
	api.HandleFunc("/restart", handlers.Restart).Methods(http.MethodPost)

	if ws != nil {
		router.Handle("/ws", ws)
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Errorf("failed to open static files: %w", err))
	}

	router.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)

	return router
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}

		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}
