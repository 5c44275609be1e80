package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/engine"
	"a2a/internal/ports"
)

const errCodeInvalidArgument = 3

// PlayerView is one player's public standing in a snapshot.
type PlayerView struct {
	Nick     string `json:"nick"`
	Wins     int    `json:"wins"`
	HandSize int    `json:"hand_size"`
	Judge    bool   `json:"judge,omitempty"`
	Awaiting bool   `json:"awaiting,omitempty"`
}

// SnapshotResponse is the payload of RpcSnapshot. Hands are never exposed.
type SnapshotResponse struct {
	Connected    bool         `json:"connected"`
	Active       bool         `json:"active"`
	MatchID      string       `json:"match_id,omitempty"`
	State        string       `json:"state,omitempty"`
	Adjective    string       `json:"adjective,omitempty"`
	RoundsPlayed uint         `json:"rounds_played"`
	ExpiresAt    int64        `json:"expires_at,omitempty"`
	Players      []PlayerView `json:"players,omitempty"`
}

// HistoryRequest is the optional payload of RpcHistory.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// HistoryResponse is the payload returned by RpcHistory.
type HistoryResponse struct {
	Players []ports.PlayerHistory `json:"players"`
}

func snapshotView(s engine.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{Connected: s.Connected}
	m := s.Match
	if m == nil {
		return resp
	}
	resp.Active = true
	resp.MatchID = m.ID
	resp.State = string(m.State)
	resp.Adjective = m.CurrentAdjective
	resp.RoundsPlayed = m.RoundsPlayed
	if !m.Expiration.IsZero() {
		resp.ExpiresAt = m.Expiration.Unix()
	}
	for _, nick := range m.PlayerOrder {
		resp.Players = append(resp.Players, PlayerView{
			Nick:     nick,
			Wins:     m.Wins[nick],
			HandSize: len(m.Hands[nick]),
			Judge:    nick == m.CurrentJudge,
			Awaiting: m.Owes(nick),
		})
	}
	sort.SliceStable(resp.Players, func(i, j int) bool {
		return resp.Players[i].Wins > resp.Players[j].Wins
	})
	return resp
}

type snapshotter interface {
	Snapshot() engine.Snapshot
}

// rpcSnapshot returns the live match state.
//
// Payload: ignored.
// Returns: JSON SnapshotResponse.
func rpcSnapshot(runner snapshotter) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		data, err := json.Marshal(snapshotView(runner.Snapshot()))
		if err != nil {
			logger.Error("RpcSnapshot: failed to marshal response: %v", err)
			return "", err
		}
		return string(data), nil
	}
}

// rpcHistory returns players ranked by recorded round wins.
//
// Payload: (Optional) JSON HistoryRequest.
// Returns: JSON HistoryResponse.
func rpcHistory(reader ports.HistoryReader) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		req := HistoryRequest{Limit: defaultHistoryLimit}
		if strings.TrimSpace(payload) != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				return "", runtime.NewError("invalid history payload", errCodeInvalidArgument)
			}
		}

		players, err := reader.PlayerHistory(ctx, req.Limit)
		if err != nil {
			logger.Error("RpcHistory: failed to read history: %v", err)
			return "", err
		}
		if players == nil {
			players = []ports.PlayerHistory{}
		}
		data, err := json.Marshal(HistoryResponse{Players: players})
		if err != nil {
			logger.Error("RpcHistory: failed to marshal response: %v", err)
			return "", err
		}
		return string(data), nil
	}
}
