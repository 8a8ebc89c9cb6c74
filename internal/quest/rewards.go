package quest

import (
	"github.com/hollowmoor/duskmud/internal/config"
)

// calculateRewards scales XP and gold with objective difficulty, and with
// quantity for the count-based quest types.
func calculateRewards(cfg *config.Config, questType config.QuestType, difficulty, quantity int) Rewards {
	xp := cfg.RewardBaseXP + difficulty*cfg.RewardXPPerLevel
	gold := cfg.RewardBaseGold + difficulty*cfg.RewardGoldPerLevel

	switch questType {
	case config.QuestTypeKill, config.QuestTypeFetch:
		xp += quantity * cfg.RewardXPPerQuantity
		gold += quantity * cfg.RewardGoldPerQuantity
	}

	return Rewards{XP: xp, Gold: gold}
}
