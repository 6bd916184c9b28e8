// Package cards implements the binary card catalogue pushed to every client
// on connect. Cards carry the game's tunable configuration: chat limits,
// action-point economy, XP curve, rewards, and cosmetic skins. The client
// keys cards by the CRC32 of their string ID.
package cards

import (
	"hash/crc32"

	"github.com/saddleworks/rccemu/internal/constants"
	"github.com/saddleworks/rccemu/internal/gameserver/packet"
)

// Category is the variant tag written before each card body.
// Values come from the client's CardCategory enum.
type Category byte

const (
	CategoryLogicSkins        Category = 0x11
	CategoryLogicMain         Category = 0x15
	CategoryLogicActionPoints Category = 0x16
	CategoryLogicChat         Category = 0x1E
)

// Card is one catalogue entry. encode writes the card body (everything
// after the category tag and ID) in the client's field order.
type Card interface {
	ID() string
	Category() Category
	encode(w *packet.Writer)
}

// Key returns the client-side lookup key for a card or item ID:
// unsigned CRC32 (IEEE polynomial) of the UTF-8 bytes.
func Key(id string) uint32 {
	return crc32.ChecksumIEEE([]byte(id))
}

// WriteVariant writes one card in the client's ReadVariant framing:
// category tag, VarInt-length UTF-8 ID, then the card body. Bodies carry
// no length prefix; the decoder knows each category's shape.
func WriteVariant(w *packet.Writer, c Card) {
	_ = w.WriteByte(byte(c.Category()))
	w.WriteString(c.ID())
	c.encode(w)
}

// EncodeCatalogue builds the full catalogue push payload:
//
//	[ServiceCards][FunctionCardsInit][VarInt count][card...]
//
// ServiceCards messages carry no RPCID.
func EncodeCatalogue(list []Card) []byte {
	w := packet.Get()
	defer w.Put()

	_ = w.WriteByte(constants.ServiceCards)
	_ = w.WriteByte(constants.FunctionCardsInit)
	w.WriteSize(uint32(len(list)))
	for _, c := range list {
		WriteVariant(w, c)
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
