package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/ports"
)

// hooks translate realtime traffic on the game channel into inbound chat events.
type hooks struct {
	transport *Transport
}

// afterChannelMessageSend forwards a player's chat line in the game channel.
func (h *hooks) afterChannelMessageSend(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out, in *rtapi.Envelope) error {
	msg := in.GetChannelMessageSend()
	if msg == nil || msg.GetChannelId() != h.transport.ChannelID() {
		return nil
	}
	username := ctxUsername(ctx)
	if username == "" {
		return nil
	}
	text, err := messageText(msg.GetContent())
	if err != nil {
		logger.Debug("Hooks: ignoring message from %s: %v", username, err)
		return nil
	}
	h.transport.Deliver(ports.ReceivedMessage{Sender: username, Text: text})
	return nil
}

func (h *hooks) afterChannelLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out, in *rtapi.Envelope) error {
	leave := in.GetChannelLeave()
	if leave == nil || leave.GetChannelId() != h.transport.ChannelID() {
		return nil
	}
	if username := ctxUsername(ctx); username != "" {
		h.transport.Deliver(ports.ReceivedDeparture{Nick: username})
	}
	return nil
}

func (h *hooks) onSessionEnd(ctx context.Context, logger runtime.Logger, evt *api.Event) {
	if username := ctxUsername(ctx); username != "" {
		h.transport.Deliver(ports.ReceivedDeparture{Nick: username})
	}
}

// afterUpdateAccount reports a username change as a rename.
func (h *hooks) afterUpdateAccount(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, in *api.UpdateAccountRequest) error {
	oldName := ctxUsername(ctx)
	newName := in.GetUsername().GetValue()
	if oldName == "" || newName == "" || oldName == newName {
		return nil
	}
	logger.Info("Hooks: %s is now known as %s", oldName, newName)
	h.transport.Deliver(ports.ReceivedRename{OldNick: oldName, NewNick: newName})
	return nil
}

func ctxUsername(ctx context.Context) string {
	username, _ := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string)
	return username
}

// messageText extracts the "message" field of a channel message's JSON content.
func messageText(content string) (string, error) {
	var body struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(content), &body); err != nil {
		return "", fmt.Errorf("failed to unmarshal content: %w", err)
	}
	if body.Message == nil {
		return "", fmt.Errorf("content has no message field")
	}
	return *body.Message, nil
}
