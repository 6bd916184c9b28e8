package cards

import "github.com/saddleworks/rccemu/internal/gameserver/packet"

// separator is a two-byte marker the retail client expects between the
// trailing list section and the bonuses block of some logic cards.
// Captured from live traffic; removing it desyncs the card decoder.
var separator = []byte{0xFF, 0xF0}

// LogicMain holds the core progression tuning: ladder sizes, name limits,
// XP curve, level-up and challenge rewards, avatar price, event flags, and
// the premium bonus block.
type LogicMain struct {
	Key               string
	LadderTopSize     int32
	MaxBestScores     int32
	PlayerNameMaxSize int32
	HorseNameMaxSize  int32
	LevelUpBonus      Reward
	ChallengeWin      Reward
	LevelsXP          []int32
	SkillPointsPerLvl float32
	ChangeAvatar      Price
	Flags             []string
	Premium           Bonuses
}

func (c LogicMain) ID() string         { return c.Key }
func (c LogicMain) Category() Category { return CategoryLogicMain }

func (c LogicMain) encode(w *packet.Writer) {
	w.WriteInt(c.LadderTopSize)
	w.WriteInt(c.MaxBestScores)
	w.WriteInt(c.PlayerNameMaxSize)
	w.WriteInt(c.HorseNameMaxSize)
	encodeReward(w, c.LevelUpBonus)
	encodeReward(w, c.ChallengeWin)
	w.WriteSize(uint32(len(c.LevelsXP)))
	for _, xp := range c.LevelsXP {
		w.WriteInt(xp)
	}
	w.WriteFloat(c.SkillPointsPerLvl)
	encodePrice(w, c.ChangeAvatar)
	w.WriteSize(uint32(len(c.Flags)))
	for _, flag := range c.Flags {
		w.WriteString(flag)
	}
	w.WriteBytes(separator)
	encodeBonuses(w, c.Premium)
}

// LogicActionPoints tunes the action-point economy and the AP buff.
type LogicActionPoints struct {
	Key                   string
	MaxValue              uint32
	PracticeReduce        uint32
	RmReduce              uint32
	RestoreRate           uint32
	RestoreInterval       uint32
	PaddockReduce         uint32
	PaddockReduceInterval uint32
	BuffThreshold         float32
	BuffBonuses           Bonuses
}

func (c LogicActionPoints) ID() string         { return c.Key }
func (c LogicActionPoints) Category() Category { return CategoryLogicActionPoints }

func (c LogicActionPoints) encode(w *packet.Writer) {
	w.WriteUInt(c.MaxValue)
	w.WriteUInt(c.PracticeReduce)
	w.WriteUInt(c.RmReduce)
	w.WriteUInt(c.RestoreRate)
	w.WriteUInt(c.RestoreInterval)
	w.WriteUInt(c.PaddockReduce)
	w.WriteUInt(c.PaddockReduceInterval)
	w.WriteFloat(c.BuffThreshold)
	w.WriteBytes(separator)
	encodeBonuses(w, c.BuffBonuses)
}

// LogicChat carries chat rate limits and the highlighted "star" players.
type LogicChat struct {
	Key               string
	MessageCountLimit int32
	MessageTimeLimit  float32
	SpamBanTime       float32
	StarPlayers       []uint32
}

func (c LogicChat) ID() string         { return c.Key }
func (c LogicChat) Category() Category { return CategoryLogicChat }

func (c LogicChat) encode(w *packet.Writer) {
	w.WriteInt(c.MessageCountLimit)
	w.WriteFloat(c.MessageTimeLimit)
	w.WriteFloat(c.SpamBanTime)
	w.WriteSize(uint32(len(c.StarPlayers)))
	for _, id := range c.StarPlayers {
		w.WriteUInt(id)
	}
}

// Color is an RGBA float quad, the client's color wire format.
type Color struct {
	R, G, B, A float32
}

// HairSkin pairs a main and a specular color for horse hair.
type HairSkin struct {
	Main Color
	Spec Color
}

// LogicSkins lists the available cosmetic skins.
type LogicSkins struct {
	Key         string
	HorseSkins  []string
	TailSkins   []string
	PlayerSkins []string
	HairSkins   []HairSkin
}

func (c LogicSkins) ID() string         { return c.Key }
func (c LogicSkins) Category() Category { return CategoryLogicSkins }

func (c LogicSkins) encode(w *packet.Writer) {
	writeStringList(w, c.HorseSkins)
	writeStringList(w, c.TailSkins)
	writeStringList(w, c.PlayerSkins)
	w.WriteSize(uint32(len(c.HairSkins)))
	for _, hs := range c.HairSkins {
		writeColor(w, hs.Main)
		writeColor(w, hs.Spec)
	}
}

func writeStringList(w *packet.Writer, list []string) {
	w.WriteSize(uint32(len(list)))
	for _, s := range list {
		w.WriteString(s)
	}
}

func writeColor(w *packet.Writer, c Color) {
	w.WriteFloat(c.R)
	w.WriteFloat(c.G)
	w.WriteFloat(c.B)
	w.WriteFloat(c.A)
}
