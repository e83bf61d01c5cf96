package routespec

// MatchPositions checks that reference is an order-preserving, gap-tolerant
// subsequence of stopIDs. On success it returns, for every reference entry,
// the index in stopIDs it was matched to (earliest match).
func MatchPositions(reference []string, stopIDs []string) ([]int, bool) {
	positions := make([]int, 0, len(reference))

	next := 0
	for _, referenceID := range reference {
		found := false

		for ; next < len(stopIDs); next++ {
			if stopIDs[next] == referenceID {
				positions = append(positions, next)
				next++
				found = true
				break
			}
		}

		if !found {
			return nil, false
		}
	}

	return positions, true
}

func IsSubsequence(reference []string, stopIDs []string) bool {
	_, matched := MatchPositions(reference, stopIDs)

	return matched
}
