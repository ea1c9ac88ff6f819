package fixtures

// bye marks the empty slot added when the number of teams is odd.
const bye = 0

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate pairs every team with every other team once per leg using the
// circle method: one team stays fixed while the rest rotate, so no team plays
// twice in the same round. The second leg repeats the first with home and
// away swapped.
func (g *RoundRobinGenerator) Generate(params Params) ([]Pairing, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	slots := append([]int(nil), params.TeamIDs...)
	if len(slots)%2 == 1 {
		slots = append(slots, bye)
	}
	n := len(slots)
	roundsPerLeg := n - 1

	firstLeg := make([]Pairing, 0, roundsPerLeg*n/2)
	for round := 1; round <= roundsPerLeg; round++ {
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Alternate the fixed team between home and away.
			if i == 0 && round%2 == 0 {
				home, away = away, home
			}
			firstLeg = append(firstLeg, Pairing{Round: round, Team1ID: home, Team2ID: away})
		}
		// Rotate every slot except the first one step clockwise.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	pairings := firstLeg
	if params.Legs == 2 {
		for _, p := range firstLeg {
			pairings = append(pairings, Pairing{
				Round:   p.Round + roundsPerLeg,
				Team1ID: p.Team2ID,
				Team2ID: p.Team1ID,
			})
		}
	}

	for i := range pairings {
		pairings[i].MatchDate = params.StartDate.AddDate(0, 0, (pairings[i].Round-1)*params.DaysBetweenRounds)
	}
	return pairings, nil
}
