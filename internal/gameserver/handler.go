package gameserver

import (
	"context"
	"encoding/binary"
	"log/slog"

	"github.com/saddleworks/rccemu/internal/constants"
	"github.com/saddleworks/rccemu/internal/db"
	"github.com/saddleworks/rccemu/internal/debuglog"
)

// Handler processes game channel messages. Singleton, one per server.
type Handler struct {
	users UserRepository
	logs  *debuglog.Logs
}

// NewHandler creates a message handler.
func NewHandler(users UserRepository, logs *debuglog.Logs) *Handler {
	return &Handler{users: users, logs: logs}
}

// knownService reports whether b is a valid service id.
func knownService(b byte) bool {
	return b >= constants.ServiceLogin && b <= constants.ServicePlayer
}

// HandleMessage dispatches one frame payload and returns the reply to send,
// or nil for fire-and-forget messages. Unknown services get the generic
// acknowledgement; a bad message never closes the connection.
//
// Some client builds prepend two wrapper bytes before the service id, so the
// service is located by probing: byte 0 if it is a known service id, else
// byte 2, defaulting to byte 2 when neither matches.
func (h *Handler) HandleMessage(ctx context.Context, client *Client, data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	offset := 0
	serviceID := data[0]
	switch {
	case len(data) > 2 && knownService(data[2]):
		serviceID = data[2]
		offset = 2
	case knownService(data[0]):
		serviceID = data[0]
		offset = 0
	case len(data) > 2:
		slog.Warn("no known service id in message, assuming wrapped header",
			"first", data[0], "third", data[2],
			"client", client.ID(), "hex", debuglog.Dump(data))
		serviceID = data[2]
		offset = 2
	}

	msg := data[offset:]

	var rpcID uint16
	if len(msg) >= 3 {
		rpcID = binary.LittleEndian.Uint16(msg[1:3])
	}

	var payload []byte
	if len(msg) > 3 {
		payload = msg[3:]
	}

	h.logs.TCP.Debug("message parsed",
		"client", client.ID(), "service", serviceID, "rpc", rpcID, "size", len(data))

	switch serviceID {
	case constants.ServiceLogin:
		return h.handleLogin(ctx, client, rpcID, payload)
	case constants.ServiceCards:
		// The server is the sole producer of cards.
		slog.Warn("ignoring inbound cards message", "client", client.ID())
		return nil
	case constants.ServiceGame:
		return h.handleGame(client, msg)
	default:
		return buildGenericReply(rpcID)
	}
}

// handleLogin parses the authorization blob, resolves the player identity,
// and builds the login reply.
func (h *Handler) handleLogin(ctx context.Context, client *Client, rpcID uint16, payload []byte) []byte {
	h.logs.DumpBinary("INCOMING", client.ID(), "login payload", payload)

	req := parseLogin(payload)

	user, err := h.users.GetOrCreateUser(ctx, req.SourceType, req.SourceID, db.HashToken(req.Token))
	if err != nil {
		slog.Error("login failed", "err", err, "sourceId", req.SourceID, "client", client.ID())
		return buildLoginError(rpcID, "Login error: internal failure")
	}

	client.SetLoggedIn(user.PlayerID)
	slog.Info("login success",
		"playerId", user.PlayerID, "name", user.Name,
		"sourceId", req.SourceID, "client", client.ID())

	return buildLoginSuccess(rpcID, user.PlayerID, byte(user.UserState), byte(user.AccessLevel))
}

// handleGame handles ServiceGame, which is keyed by function id and never
// expects a reply. Function 0 is the fire-and-forget Subscribe.
func (h *Handler) handleGame(client *Client, msg []byte) []byte {
	if len(msg) < 2 {
		slog.Warn("game service message too short", "size", len(msg), "client", client.ID())
		return nil
	}

	functionID := msg[1]
	if functionID == constants.FunctionGameSubscribe {
		slog.Debug("game subscribe", "client", client.ID())
	} else {
		slog.Warn("unknown game service function", "function", functionID, "client", client.ID())
	}
	return nil
}
