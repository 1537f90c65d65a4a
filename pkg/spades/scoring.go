package spades

import "github.com/sirupsen/logrus"

// bonuses and penalties, in points
const (
	nilBonus      = 100
	blindNilBonus = 200
	bagLimit      = 10
	bagPenalty    = 100
)

// scoreHand settles the completed hand into the partnership scores and moves
// the game to the scoring phase. The hand's bids, trick counts, and flags are
// retained read-only until the next deal.
func (g *Game) scoreHand() {
	hs := g.hand

	for team := 0; team <= 1; team++ {
		tricks := hs.tricksWon[team] + hs.tricksWon[team+2]
		bid := hs.bids[team] + hs.bids[team+2]

		score := g.scores[team]
		if tricks >= bid {
			score.Points += bid*10 + (tricks - bid)
			score.Bags += tricks - bid
			for score.Bags >= bagLimit {
				score.Points -= bagPenalty
				score.Bags -= bagLimit
			}
		} else {
			score.Points -= bid * 10
		}
	}

	// nil and blind-nil settlements are per seat and additive to the
	// partnership settlement above
	for seat := 0; seat <= 3; seat++ {
		wonAny := hs.tricksWon[seat] > 0
		score := g.scores[Team(seat)]

		if hs.nilCalls[seat] {
			if wonAny {
				score.Points -= nilBonus
			} else {
				score.Points += nilBonus
			}
		}

		if hs.blindNil[seat] {
			if wonAny {
				score.Points -= blindNilBonus
			} else {
				score.Points += blindNilBonus
			}
		}
	}

	g.phase = PhaseScoring

	g.logger.WithFields(logrus.Fields{
		"northSouth": g.scores[0],
		"eastWest":   g.scores[1],
	}).Debug("hand scored")
}
