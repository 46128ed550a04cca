package ranking

import (
	"sort"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// DefaultSelectionSize is how many photos a profile gets by default.
const DefaultSelectionSize = 5

// Rank recomputes rank scores under the policy and returns the records sorted
// by descending score. Ties keep the original upload order, so ranking is
// deterministic and idempotent. The input slice is not modified.
func Rank(records []types.PhotoRecord, policy Policy) []types.PhotoRecord {
	ranked := make([]types.PhotoRecord, len(records))
	copy(ranked, records)

	for i := range ranked {
		ranked[i].RankScore = policy.Score(&ranked[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RankScore != ranked[j].RankScore {
			return ranked[i].RankScore > ranked[j].RankScore
		}
		return ranked[i].UploadIndex < ranked[j].UploadIndex
	})

	for i := range ranked {
		ranked[i].RankPosition = i + 1
	}

	return ranked
}

// Select ranks the records and returns the first k. If fewer than k records
// exist, all are returned. k <= 0 falls back to DefaultSelectionSize.
func Select(records []types.PhotoRecord, k int, policy Policy) []types.PhotoRecord {
	if k <= 0 {
		k = DefaultSelectionSize
	}

	ranked := Rank(records, policy)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
