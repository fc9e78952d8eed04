package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

func (that *Server) handleCellSelect(ctx context.Context, c *client, msg *Message) error {
	var payload CellPayload

	if err := decodePayload(msg, &payload); err != nil {
		that.sendError(c, "malformed payload", nil)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Cell == nil {
		that.sendError(c, "cell is required", nil)
		return nil
	}

	view, err := that.game.SelectCell(ctx, c.sessionID, *payload.Cell)

	return that.reply(c, view, err)
}

func (that *Server) handleUndo(ctx context.Context, c *client, _ *Message) error {
	view, err := that.game.Undo(ctx, c.sessionID)

	return that.reply(c, view, err)
}

func (that *Server) handleRestart(ctx context.Context, c *client, _ *Message) error {
	view, err := that.game.Restart(ctx, c.sessionID)

	return that.reply(c, view, err)
}

// reply - reports a refused request to the sender only. Accepted changes reach every socket
// of the session through Broadcast.
func (that *Server) reply(c *client, view *entity.GameView, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, apperror.ErrRejected) || errors.Is(err, apperror.ErrSessionNotFound) {
		that.sendError(c, err.Error(), view)
		return nil
	}

	that.sendError(c, "internal error", nil)

	return err
}
