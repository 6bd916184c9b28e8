package gameserver

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/saddleworks/rccemu/internal/constants"
	"github.com/saddleworks/rccemu/internal/gameserver/packet"
)

// loginRequest is the parsed authorization blob.
type loginRequest struct {
	ProtocolVersion byte
	SourceType      string
	SourceID        string
	Token           string // hex of the raw token bytes
}

// parseLogin parses the login payload:
//
//	[wrapper][version][wrapper x4][steam id u64 LE][access token...]
//
// A payload of exactly 14 bytes is valid (empty token). Shorter payloads and
// implausible Steam IDs synthesize a fallback source id instead of failing;
// the client still gets a player identity.
func parseLogin(data []byte) loginRequest {
	req := loginRequest{SourceType: "Steam"}

	if len(data) < constants.LoginMinPayloadSize {
		// Too short to carry an account id. Key the identity off the raw
		// bytes so the same broken client maps to the same player.
		req.SourceID = "steam_fallback_" + hex.EncodeToString(data)
		return req
	}

	req.ProtocolVersion = data[constants.LoginVersionOffset]
	if req.ProtocolVersion != constants.LoginProtocolVersion {
		slog.Warn("unexpected protocol version",
			"version", req.ProtocolVersion,
			"expected", constants.LoginProtocolVersion)
	}

	steamID := binary.LittleEndian.Uint64(data[constants.LoginAccountOffset:])
	if steamID < constants.SteamIDMin || steamID > constants.SteamIDMax {
		slog.Warn("steam id outside plausible range", "steamId", steamID)
		req.SourceID = fmt.Sprintf("steam_fallback_%d", steamID)
	} else {
		req.SourceID = fmt.Sprintf("%d", steamID)
	}

	req.Token = hex.EncodeToString(parseToken(data[constants.LoginTokenOffset:]))
	return req
}

// parseToken extracts the access token. When the first four bytes decode to
// a plausible u32 length (0 < L < remaining, L < LoginTokenMaxSize) the
// token is length-prefixed; otherwise the whole remainder is the token.
func parseToken(data []byte) []byte {
	if len(data) >= 4 {
		length := binary.LittleEndian.Uint32(data)
		if length > 0 && int(length) < len(data) && length < constants.LoginTokenMaxSize {
			return data[4 : 4+length]
		}
	}
	return data
}

// buildLoginSuccess builds the success reply:
//
//	[ServiceLogin][FunctionLogin][rpc u16][status 0][playerID u32][userState][accessLevel]
func buildLoginSuccess(rpcID uint16, playerID uint32, userState, accessLevel byte) []byte {
	w := packet.Get()
	defer w.Put()

	_ = w.WriteByte(constants.ServiceLogin)
	_ = w.WriteByte(constants.FunctionLogin)
	w.WriteShort(rpcID)
	_ = w.WriteByte(constants.StatusOK)
	w.WriteUInt(playerID)
	_ = w.WriteByte(userState)
	_ = w.WriteByte(accessLevel)

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}

// buildLoginError builds the failure reply:
//
//	[ServiceLogin][FunctionLogin][rpc u16][status 255][len u32 LE][utf8 message]
//
// The error string carries a fixed u32 length prefix, not a VarInt; the
// client's error path predates its VarInt string reader.
func buildLoginError(rpcID uint16, message string) []byte {
	w := packet.Get()
	defer w.Put()

	_ = w.WriteByte(constants.ServiceLogin)
	_ = w.WriteByte(constants.FunctionLogin)
	w.WriteShort(rpcID)
	_ = w.WriteByte(constants.StatusError)
	w.WriteUInt(uint32(len(message)))
	w.WriteBytes([]byte(message))

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}

// buildGenericReply builds the minimal acknowledgement used by all generic
// services: [rpc u16][status 0]. Replies never echo the service id; the
// client's pending-RPC table routes them.
func buildGenericReply(rpcID uint16) []byte {
	var out [3]byte
	binary.LittleEndian.PutUint16(out[:2], rpcID)
	out[2] = constants.StatusOK
	return out[:]
}
