package constants

// RCC Wire Protocol Constants
//
// This file contains protocol-level constants for the Riding Club
// Championships game channel. Values were recovered from the retail client
// and from captured traffic against the original backend.

// Service Identifiers
//
// The first byte of every frame payload selects a service. The client's
// ServiceMap starts numbering at 100.
const (
	ServiceLogin        = 100
	ServiceCards        = 101
	ServiceDebug        = 102
	ServiceChat         = 103
	ServicePaddock      = 104
	ServiceSocial       = 105
	ServiceCourseEditor = 106
	ServiceMatch        = 107
	ServiceGame         = 108
	ServicePlayer       = 109
)

// Function Identifiers
const (
	// FunctionLogin is the only function on ServiceLogin.
	FunctionLogin = 0

	// FunctionCardsInit is Recv_Init on ServiceCards (full catalogue push).
	FunctionCardsInit = 0

	// FunctionGameSubscribe is the fire-and-forget Subscribe on ServiceGame.
	FunctionGameSubscribe = 0
)

// Frame Layer Constants
const (
	// VarIntMaxBytes is the maximum VarInt length for a 32-bit value.
	// A fifth continuation byte means the stream is corrupt.
	VarIntMaxBytes = 5

	// MaxFrameSize is the safety cap on a single frame payload.
	// Matches the 2 MB receive buffer the client allocates.
	MaxFrameSize = 2_000_000
)

// Login Payload Layout
//
// The authorization blob has a fixed shape:
//
//	[wrapper 1 byte][protocol version 1 byte][wrapper 4 bytes]
//	[steam account id 8 bytes LE][access token ...]
const (
	// LoginProtocolVersion is the protocol version the retail client sends.
	LoginProtocolVersion = 34

	// LoginVersionOffset is the offset of the protocol version byte.
	LoginVersionOffset = 1

	// LoginAccountOffset is the offset of the u64 LE Steam account id.
	LoginAccountOffset = 6

	// LoginTokenOffset is the offset where the access token begins.
	LoginTokenOffset = 14

	// LoginMinPayloadSize is the minimum parseable login payload
	// (everything up to and including the account id; empty token).
	LoginMinPayloadSize = LoginTokenOffset

	// LoginTokenMaxSize bounds a length-prefixed access token. Anything
	// larger is treated as an unprefixed raw token.
	LoginTokenMaxSize = 10000
)

// Steam Account ID Range
//
// SteamID64 values for individual accounts start at this base. IDs outside
// the plausible range are kept but tagged with a fallback source id.
const (
	SteamIDMin = 76561197960265728
	SteamIDMax = 76561297960265728
)

// Reply Status Codes
const (
	// StatusOK marks a successful reply.
	StatusOK = 0

	// StatusError marks a failed reply followed by an error string.
	StatusError = 255
)

// Connection Loop Constants
const (
	// ReadTimeoutSeconds is the per-read deadline on the game channel.
	// Expiry only breaks the blocking read; it is never fatal on its own.
	ReadTimeoutSeconds = 30
)

// Default Listener Ports
const (
	DefaultHTTPPort   = 80
	DefaultTCPPort    = 27130
	DefaultPolicyPort = 27132
)

// User Defaults
const (
	// DefaultUserState is UserState "menu".
	DefaultUserState = 1

	// DefaultAccessLevel is Access "user".
	DefaultAccessLevel = 0
)
