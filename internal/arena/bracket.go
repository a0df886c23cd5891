package arena

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

// MinEntrants is the smallest field that still makes a tournament.
const MinEntrants = 2

// Bracket is the seeded first round plus the entrants that did not fit
// into the power-of-two field.
type Bracket struct {
	Seeds      []*models.Viewpoint
	FirstRound []*models.Match
	Excluded   []*models.Viewpoint
}

// SeedEntrants orders entrants by descending confidence, ties broken by
// ascending profile ID. The rule is deterministic so identical entrant
// lists always produce identical pairings.
func SeedEntrants(entrants []*models.Viewpoint) []*models.Viewpoint {
	seeds := make([]*models.Viewpoint, len(entrants))
	copy(seeds, entrants)
	sort.SliceStable(seeds, func(i, j int) bool {
		if seeds[i].Confidence != seeds[j].Confidence {
			return seeds[i].Confidence > seeds[j].Confidence
		}
		return seeds[i].ProfileID < seeds[j].ProfileID
	})
	return seeds
}

// BuildBracket seeds the entrants and constructs the first round. With a
// full field of 8 that is four quarterfinals; smaller fields degrade to
// the largest power of two that fits, with the leftover low seeds
// excluded from the bracket (they still count toward consensus).
func BuildBracket(symbol string, entrants []*models.Viewpoint) (*Bracket, error) {
	if len(entrants) < MinEntrants {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientEntrants, len(entrants), MinEntrants)
	}

	seeds := SeedEntrants(entrants)

	size := 2
	for size*2 <= len(seeds) {
		size *= 2
	}

	field := seeds[:size]
	excluded := seeds[size:]

	order := seedOrder(size)
	round := RoundName(size / 2)

	matches := make([]*models.Match, 0, size/2)
	for i := 0; i < size; i += 2 {
		hi, lo := order[i]-1, order[i+1]-1
		matches = append(matches, newMatch(round, i/2, field[hi], field[lo]))
	}

	return &Bracket{
		Seeds:      field,
		FirstRound: matches,
		Excluded:   excluded,
	}, nil
}

// NextRound pairs the winners of a completed round in match order. The
// winner advancing from the lower match index takes the bull side.
func NextRound(winners []*models.Viewpoint) []*models.Match {
	round := RoundName(len(winners) / 2)
	matches := make([]*models.Match, 0, len(winners)/2)
	for i := 0; i < len(winners); i += 2 {
		matches = append(matches, newMatch(round, i/2, winners[i], winners[i+1]))
	}
	return matches
}

// RoundName maps a round's match count to its name.
func RoundName(matchCount int) string {
	switch matchCount {
	case 4:
		return consts.RoundQuarterfinal
	case 2:
		return consts.RoundSemifinal
	default:
		return consts.RoundFinal
	}
}

// newMatch assigns sides by pairing order: the first (higher-seeded or
// lower-match-index) viewpoint argues bull regardless of its own stance.
func newMatch(round string, index int, bull, bear *models.Viewpoint) *models.Match {
	return &models.Match{
		ID:           uuid.NewString(),
		Round:        round,
		IndexInRound: index,
		Bull:         bull,
		Bear:         bear,
		StartedAt:    time.Now(),
	}
}

// seedOrder returns the standard bracket order of 1-based seeds for a
// power-of-two field, e.g. 8 -> [1 8 4 5 2 7 3 6]: consecutive pairs are
// the first-round pairings, and the top two seeds can only meet in the
// final.
func seedOrder(size int) []int {
	positions := []int{1}
	for len(positions) < size {
		next := make([]int, 0, len(positions)*2)
		mirror := len(positions)*2 + 1
		for _, p := range positions {
			next = append(next, p, mirror-p)
		}
		positions = next
	}
	return positions
}
