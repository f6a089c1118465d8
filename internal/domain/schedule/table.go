package schedule

const (
	ostaMg = 15
	radMg  = 10
	cardMg = 12.5
)

func caps(min, max int, perCap float64) Dose {
	return Dose{Min: min, Max: max, PerCapMg: perCap}
}

func doses(osta, rad, card Dose) map[Compound]Dose {
	return map[Compound]Dose{Osta: osta, Rad: rad, Card: card}
}

// Default returns the 9-week cycle tracked by the application.
func Default() *Cycle {
	one := func(perCap float64) Dose { return caps(1, 1, perCap) }
	two := func(perCap float64) Dose { return caps(2, 2, perCap) }

	weeks := []Week{
		{Number: 1, Days: 7, Phase: PhaseTolerance,
			Doses:  doses(one(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{200, 300, "mcg"}, NAC: Amount{600, 900, "mg"}},
		{Number: 2, Days: 7, Phase: PhaseRampUp,
			Doses:  doses(one(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 900, "mg"}},
		{Number: 3, Days: 7, Phase: PhaseRampUp,
			Doses:  doses(one(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 900, "mg"}},
		{Number: 4, Days: 7, Phase: PhaseRampUp,
			Doses:  doses(two(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 900, "mg"}},
		{Number: 5, Days: 7, Phase: PhasePeak,
			Doses:  doses(two(ostaMg), two(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 1200, "mg"}},
		{Number: 6, Days: 7, Phase: PhasePeak,
			Doses:  doses(two(ostaMg), two(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 1200, "mg"}},
		{Number: 7, Days: 7, Phase: PhasePeak,
			Doses:  doses(caps(1, 2, ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{300, 500, "mcg"}, NAC: Amount{900, 1200, "mg"}},
		{Number: 8, Days: 7, Phase: PhaseTaper,
			Doses:  doses(one(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{200, 300, "mcg"}, NAC: Amount{900, 900, "mg"}},
		{Number: 9, Days: 7, Phase: PhaseTaper,
			Doses:  doses(one(ostaMg), one(radMg), one(cardMg)),
			Selank: Amount{200, 300, "mcg"}, NAC: Amount{900, 900, "mg"}},
	}

	return New(weeks, map[Compound]int{
		Osta: 100,
		Rad:  90,
		Card: 60,
	})
}
