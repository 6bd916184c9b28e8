package cards

import "github.com/saddleworks/rccemu/internal/gameserver/packet"

// Inline records embedded in card bodies. They are written directly with no
// length prefix; optional sections are gated by a one-byte bitfield with the
// flags packed MSB-first (0x80 = first field present).

// Reward is a money/xp/ap/item grant.
type Reward struct {
	Coins        int32
	SkillTickets int32
	XP           int32
	AP           int32
	Items        []string // item IDs, hashed to u32 keys at encode time
}

// Price is a coins/tickets cost with an optional sale multiplier.
type Price struct {
	Coins        int32
	SkillTickets int32
	Sale         float32
	HasSale      bool
}

// Bonuses is a stat modifier block (premium or buff).
type Bonuses struct {
	SkillTicketsRate float32
	XPRate           float32
	LootRate         float32
	APCostRate       float32
	APRestoreRate    float32
	APMax            int32
	Strength         int32
	Timing           int32
	Speed            int32
	Acceleration     int32
	Stamina          int32
	Obedience        int32
}

// encodeReward writes a Reward. The money section is always present, so the
// bitfield is always 0x80.
func encodeReward(w *packet.Writer, r Reward) {
	_ = w.WriteByte(0x80)
	w.WriteInt(r.Coins)
	w.WriteInt(r.SkillTickets)
	w.WriteInt(r.XP)
	w.WriteInt(r.AP)
	w.WriteSize(uint32(len(r.Items)))
	for _, item := range r.Items {
		w.WriteUInt(Key(item))
	}
}

// encodePrice writes a Price. The sale float follows only when the bitfield
// marks it present.
func encodePrice(w *packet.Writer, p Price) {
	if p.HasSale {
		_ = w.WriteByte(0x80)
	} else {
		_ = w.WriteByte(0x00)
	}
	w.WriteInt(p.Coins)
	w.WriteInt(p.SkillTickets)
	if p.HasSale {
		w.WriteFloat(p.Sale)
	}
}

// encodeBonuses writes a Bonuses block: five f32 rates, then seven i32 stats.
func encodeBonuses(w *packet.Writer, b Bonuses) {
	w.WriteFloat(b.SkillTicketsRate)
	w.WriteFloat(b.XPRate)
	w.WriteFloat(b.LootRate)
	w.WriteFloat(b.APCostRate)
	w.WriteFloat(b.APRestoreRate)
	w.WriteInt(b.APMax)
	w.WriteInt(b.Strength)
	w.WriteInt(b.Timing)
	w.WriteInt(b.Speed)
	w.WriteInt(b.Acceleration)
	w.WriteInt(b.Stamina)
	w.WriteInt(b.Obedience)
}
