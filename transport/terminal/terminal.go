// Package terminal plays a hot-seat game on a text terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const help = "cell 0-8 | u undo | r restart | q quit"

var confetti = []string{"*", "+", "o", ".", "x"}

type gameUseCase interface {
	Subscribe(fn func(view entity.GameView)) (unsubscribe func())
	Open(ctx context.Context, id string) (*entity.GameView, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.GameView, error)
	Undo(ctx context.Context, id string) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
	Close(ctx context.Context, id string) error
}

type UI struct {
	logger *slog.Logger
	game   gameUseCase
	in     io.Reader
	out    *termenv.Output

	mu        sync.Mutex
	sessionID string
	message   string
}

func New(logger *slog.Logger, game gameUseCase, in io.Reader, out *termenv.Output) *UI {
	return &UI{
		logger: logger.With("component", "terminal"),
		game:   game,
		in:     in,
		out:    out,
	}
}

// Run - plays one session until the players quit, the input ends or ctx is canceled.
func (that *UI) Run(ctx context.Context) error {
	unsubscribe := that.game.Subscribe(that.OnView)
	defer unsubscribe()

	view, err := that.game.Open(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to open game: %w", err)
	}

	that.mu.Lock()
	that.sessionID = view.SessionID
	that.renderLocked(*view)
	that.mu.Unlock()

	defer func() {
		if closeErr := that.game.Close(context.WithoutCancel(ctx), view.SessionID); closeErr != nil {
			that.logger.Error("failed to close game", "error", closeErr)
		}
	}()

	lines := make(chan string)
	go that.scan(ctx, lines)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			quit, err := that.execute(ctx, view.SessionID, strings.TrimSpace(line))
			if err != nil {
				return err
			}

			if quit {
				return nil
			}
		}
	}
}

// OnView - redraws the board when the running session changes.
func (that *UI) OnView(view entity.GameView) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if view.SessionID != that.sessionID {
		return
	}

	that.message = ""
	that.renderLocked(view)
}

func (that *UI) scan(ctx context.Context, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(that.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		that.logger.Error("failed to read input", "error", err)
	}
}

func (that *UI) execute(ctx context.Context, sessionID, command string) (bool, error) {
	var (
		view *entity.GameView
		err  error
	)

	switch command {
	case "":
		return false, nil
	case "q":
		return true, nil
	case "u":
		view, err = that.game.Undo(ctx, sessionID)
	case "r":
		view, err = that.game.Restart(ctx, sessionID)
	default:
		cell, convErr := strconv.Atoi(command)
		if convErr != nil {
			that.notify(nil, fmt.Sprintf("unknown command %q (%s)", command, help))
			return false, nil
		}

		view, err = that.game.SelectCell(ctx, sessionID, cell)
	}

	if errors.Is(err, apperror.ErrRejected) {
		that.notify(view, err.Error())
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to run %q: %w", command, err)
	}

	return false, nil
}

// notify shows text under the board. Accepted moves are drawn by OnView.
func (that *UI) notify(view *entity.GameView, text string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.message = text
	if view != nil {
		that.renderLocked(*view)
		return
	}

	fmt.Fprintln(that.out, that.out.String(text).Faint())
}

func (that *UI) renderLocked(view entity.GameView) {
	if that.out.Profile != termenv.Ascii {
		that.out.ClearScreen()
	}

	var sb strings.Builder

	if view.Presentation.Banner != "" {
		sb.WriteString(that.out.String(view.Presentation.Banner).Bold().Foreground(that.out.Color("1")).String())
		sb.WriteString("\n")
	}

	if view.Presentation.Celebrating {
		sb.WriteString(celebrationLine(view.Presentation.CelebrationFrame))
		sb.WriteString("\n")
	}

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = that.cell(view.Board, row*3+col)
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			sb.WriteString("---+---+---\n")
		}
	}

	sb.WriteString(view.StatusText + "\n")

	if that.message != "" {
		sb.WriteString(that.out.String(that.message).Faint().String() + "\n")
	}

	sb.WriteString(help + "\n> ")

	fmt.Fprint(that.out, sb.String())
}

func (that *UI) cell(board entity.Board, index int) string {
	switch board[index] {
	case entity.PlayerX:
		return that.out.String("X").Bold().Foreground(that.out.Color("4")).String()
	case entity.PlayerO:
		return that.out.String("O").Bold().Foreground(that.out.Color("3")).String()
	default:
		return that.out.String(strconv.Itoa(index)).Faint().String()
	}
}

func celebrationLine(frame int) string {
	var sb strings.Builder
	for i := 0; i < 11; i++ {
		sb.WriteString(confetti[(i+frame)%len(confetti)])
	}

	return sb.String()
}
