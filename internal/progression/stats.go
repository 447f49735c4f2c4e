package progression

// Stats is an aggregate view over all worlds for menus and the CLI.
type Stats struct {
	TotalWorlds     int
	WorldsUnlocked  int
	WorldsCompleted int

	TotalLevels     int
	LevelsUnlocked  int
	LevelsCompleted int

	StarsEarned int
	StarsTotal  int // 3 per level

	EssenceEarned    int
	ExperienceEarned int
}

// Stats computes progression statistics from the current records.
func (m *Manager) Stats() Stats {
	s := Stats{
		TotalWorlds:      len(m.worlds),
		EssenceEarned:    m.profile.Essence,
		ExperienceEarned: m.profile.Experience,
	}

	for _, w := range m.worlds {
		if w.Progress.Unlocked {
			s.WorldsUnlocked++
		}
		if w.Progress.Completed {
			s.WorldsCompleted++
		}
		s.TotalLevels += len(w.Levels)
		s.StarsTotal += 3 * len(w.Levels)
		s.StarsEarned += w.Progress.StarsEarned

		for _, lvl := range w.Levels {
			if lvl.Progress.Unlocked {
				s.LevelsUnlocked++
			}
			if lvl.Progress.Completed {
				s.LevelsCompleted++
			}
		}
	}

	return s
}
