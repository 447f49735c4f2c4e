package progression

// Reward bonus granted per star on top of a level's base rewards.
const (
	EssencePerStar    = 25
	ExperiencePerStar = 50
)

// CalculateStars rates an attempt against a level's star tiers. Tiers
// are checked from three stars down to one; a tier is met when the
// score reaches its minimum and the attempt stays within its move and
// time bounds (0 in a tier means unbounded). Returns 0 when even the
// one-star tier is missed.
func CalculateStars(def LevelDefinition, score, moves, timeSecs int) int {
	for i := len(def.Tiers) - 1; i >= 0; i-- {
		if tierMet(def.Tiers[i], score, moves, timeSecs) {
			return i + 1
		}
	}
	return 0
}

func tierMet(tier StarTier, score, moves, timeSecs int) bool {
	if score < tier.Score {
		return false
	}
	if tier.Moves > 0 && moves > tier.Moves {
		return false
	}
	if tier.TimeSecs > 0 && timeSecs > tier.TimeSecs {
		return false
	}
	return true
}
