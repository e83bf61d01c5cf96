package tripsort

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/travigo/agencyfeed/pkg/gtfs"
)

const (
	tierReference = iota
	tierExtra
	tierUnplaced
)

// Occurrence is one stop of one trip, placed against a direction reference.
// Anchor is the reference index the stop sorts at; extras sort right after
// the reference stop they followed in the trip.
type Occurrence struct {
	TripID   string
	StopID   string
	Sequence int

	Anchor int
	tier   int
}

func (o Occurrence) Placed() bool {
	return o.tier != tierUnplaced
}

// SoftOrderingGap lists the stops of a trip that could not be placed against
// the reference. They are ordered last by raw sequence.
type SoftOrderingGap struct {
	TripID  string
	StopIDs []string
}

func (g *SoftOrderingGap) Error() string {
	return fmt.Sprintf("trip %s: stops %s have no preceding reference stop", g.TripID, strings.Join(g.StopIDs, ","))
}

// Compare orders occurrences by anchor, then reference stops before extras,
// then raw sequence, then trip id.
func Compare(a, b Occurrence) int {
	return cmp.Or(
		cmp.Compare(a.Anchor, b.Anchor),
		cmp.Compare(a.tier, b.tier),
		cmp.Compare(a.Sequence, b.Sequence),
		strings.Compare(a.TripID, b.TripID),
	)
}

func Less(a, b Occurrence) bool {
	return Compare(a, b) < 0
}

// Place aligns the stops of trip with reference. Every stop found in the
// reference takes a reference position; others follow the nearest preceding
// reference stop. Stops before the first reference stop are unplaceable.
func Place(reference []string, trip *gtfs.RawTrip) ([]Occurrence, *SoftOrderingGap) {
	stopIDs := trip.StopIDs()
	aligned := anchors(reference, stopIDs)

	occurrences := make([]Occurrence, len(stopIDs))
	var gap *SoftOrderingGap

	anchor := -1
	for i, stop := range trip.Stops {
		occurrence := Occurrence{
			TripID:   trip.TripID,
			StopID:   stop.StopID,
			Sequence: stop.Sequence,
		}

		switch {
		case aligned[i] >= 0:
			anchor = aligned[i]
			occurrence.Anchor = anchor
			occurrence.tier = tierReference
		case anchor >= 0:
			occurrence.Anchor = anchor
			occurrence.tier = tierExtra
		default:
			occurrence.Anchor = len(reference)
			occurrence.tier = tierUnplaced

			if gap == nil {
				gap = &SoftOrderingGap{TripID: trip.TripID}
			}
			gap.StopIDs = append(gap.StopIDs, stop.StopID)
		}

		occurrences[i] = occurrence
	}

	return occurrences, gap
}

// Order merges the stops of several trips of one direction into a single
// display order. A stop appearing more than once keeps its first position.
func Order(reference []string, trips []*gtfs.RawTrip) ([]Occurrence, []*SoftOrderingGap) {
	var occurrences []Occurrence
	var gaps []*SoftOrderingGap

	for _, trip := range trips {
		placed, gap := Place(reference, trip)
		occurrences = append(occurrences, placed...)

		if gap != nil {
			gaps = append(gaps, gap)
		}
	}

	slices.SortStableFunc(occurrences, Compare)

	seen := map[string]bool{}
	ordered := occurrences[:0]
	for _, occurrence := range occurrences {
		if seen[occurrence.StopID] {
			continue
		}
		seen[occurrence.StopID] = true
		ordered = append(ordered, occurrence)
	}

	return ordered, gaps
}

// anchors pairs stops with reference indexes by alignment first. A stop the
// alignment left out takes the first unused index holding the same stop id.
func anchors(reference []string, stopIDs []string) []int {
	aligned := align(reference, stopIDs)

	used := make([]bool, len(reference))
	for _, index := range aligned {
		if index >= 0 {
			used[index] = true
		}
	}

	for j, stopID := range stopIDs {
		if aligned[j] >= 0 {
			continue
		}

		for i, referenceID := range reference {
			if !used[i] && referenceID == stopID {
				aligned[j] = i
				used[i] = true
				break
			}
		}
	}

	return aligned
}

// align returns, for every stop in stopIDs, the reference index it is paired
// with by a longest common subsequence, or -1.
func align(reference []string, stopIDs []string) []int {
	lengths := make([][]int, len(reference)+1)
	for i := range lengths {
		lengths[i] = make([]int, len(stopIDs)+1)
	}

	for i := len(reference) - 1; i >= 0; i-- {
		for j := len(stopIDs) - 1; j >= 0; j-- {
			if reference[i] == stopIDs[j] {
				lengths[i][j] = lengths[i+1][j+1] + 1
			} else {
				lengths[i][j] = max(lengths[i+1][j], lengths[i][j+1])
			}
		}
	}

	aligned := make([]int, len(stopIDs))
	for j := range aligned {
		aligned[j] = -1
	}

	i, j := 0, 0
	for i < len(reference) && j < len(stopIDs) {
		switch {
		case reference[i] == stopIDs[j] && lengths[i][j] == lengths[i+1][j+1]+1:
			aligned[j] = i
			i++
			j++
		case lengths[i+1][j] >= lengths[i][j+1]:
			i++
		default:
			j++
		}
	}

	return aligned
}
