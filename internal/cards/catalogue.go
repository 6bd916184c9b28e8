package cards

// DefaultCatalogue returns the four logic cards with the retail tuning
// values. starPlayers seeds LogicChat; when empty the client still needs a
// non-empty list, so player 1 stands in.
func DefaultCatalogue(starPlayers []uint32) []Card {
	if len(starPlayers) == 0 {
		starPlayers = []uint32{1}
	}

	return []Card{
		LogicMain{
			Key:               "logic_main",
			LadderTopSize:     100,
			MaxBestScores:     10,
			PlayerNameMaxSize: 20,
			HorseNameMaxSize:  20,
			LevelUpBonus: Reward{
				Coins:        100,
				SkillTickets: 1,
				AP:           25,
				Items:        []string{"fred"},
			},
			ChallengeWin: Reward{
				Coins: 100,
				XP:    100,
				AP:    25,
				Items: []string{"baguette"},
			},
			LevelsXP:          []int32{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000},
			SkillPointsPerLvl: 1.0,
			ChangeAvatar:      Price{Coins: 100},
			Flags:             []string{"snow"},
			Premium: Bonuses{
				SkillTicketsRate: 1.5,
				XPRate:           1.2,
				LootRate:         2.0,
				APCostRate:       1.0,
				APRestoreRate:    100.0,
				APMax:            10000,
				Strength:         1,
				Timing:           1,
				Speed:            1,
				Acceleration:     1,
				Stamina:          1,
				Obedience:        1,
			},
		},
		LogicActionPoints{
			Key:                   "logic_action_points",
			MaxValue:              100,
			PracticeReduce:        5,
			RmReduce:              10,
			RestoreRate:           1,
			RestoreInterval:       300,
			PaddockReduce:         2,
			PaddockReduceInterval: 600,
			BuffThreshold:         80.0,
			BuffBonuses: Bonuses{
				SkillTicketsRate: 1.2,
				XPRate:           1.1,
				LootRate:         1.8,
				APCostRate:       0.9,
				APRestoreRate:    120.0,
				APMax:            12000,
				Strength:         2,
				Timing:           2,
				Speed:            2,
				Acceleration:     2,
				Stamina:          2,
				Obedience:        2,
			},
		},
		LogicChat{
			Key:               "logic_chat",
			MessageCountLimit: 10,
			MessageTimeLimit:  10.0,
			SpamBanTime:       300.0,
			StarPlayers:       starPlayers,
		},
		LogicSkins{
			Key: "skins",
			HairSkins: []HairSkin{
				{
					Main: Color{R: 1, A: 1},
					Spec: Color{G: 1, A: 1},
				},
			},
		},
	}
}
