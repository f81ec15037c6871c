package matcher

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wallybrain/flpvault/internal/debug"
	"github.com/wallybrain/flpvault/internal/store"
)

// ProposedGroup is one candidate cluster surfaced for user review.
type ProposedGroup struct {
	ID            string
	CanonicalName string
	Confidence    float64
	FileHashes    []string
	IsUngrouped   bool
}

// ProposeGroups clusters files by pairwise confidence at or above
// threshold, using union-find to form connected components, and returns
// them sorted ascending by confidence.
func ProposeGroups(files []store.FileRecord, threshold float64) []ProposedGroup {
	n := len(files)
	if n == 0 {
		return nil
	}

	normalized := make([]string, n)
	for i, f := range files {
		normalized[i] = Normalize(f.Path)
	}

	uf := newUnionFind(n)
	edgeConfidence := make(map[[2]int]float64)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			conf := Confidence(normalized[i], normalized[j], files[i].BPM, files[j].BPM, files[i].Mtime, files[j].Mtime)
			if conf >= threshold {
				uf.union(i, j)
				edgeConfidence[[2]int{i, j}] = conf
			}
		}
	}

	components := uf.groups()
	groups := make([]ProposedGroup, 0, len(components))

	for _, members := range components {
		sort.Ints(members)

		hashes := make([]string, len(members))
		for k, idx := range members {
			hashes[k] = files[idx].Hash
		}
		isUngrouped := len(members) == 1

		var confidence float64
		if isUngrouped {
			confidence = 0.0
		} else {
			min := -1.0
			for _, i := range members {
				for _, j := range members {
					if i >= j {
						continue
					}
					if c, ok := edgeConfidence[[2]int{i, j}]; ok {
						if min < 0 || c < min {
							min = c
						}
					}
				}
			}
			if min < 0 {
				min = threshold // defensive: unreachable under this construction
			}
			confidence = min
		}

		groups = append(groups, ProposedGroup{
			ID:            uuid.NewString(),
			CanonicalName: pickCanonicalName(members, normalized, files),
			Confidence:    confidence,
			FileHashes:    hashes,
			IsUngrouped:   isUngrouped,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Confidence < groups[j].Confidence
	})

	debug.LogMatch("proposed %d groups from %d files at threshold %.2f", len(groups), n, threshold)
	return groups
}

// pickCanonicalName selects the normalized name occurring most often
// among members, tiebreaking on the oldest (smallest) mtime.
func pickCanonicalName(members []int, normalized []string, files []store.FileRecord) string {
	type tally struct {
		count       int
		oldestMtime int64
	}
	counts := make(map[string]*tally)

	for _, i := range members {
		name := normalized[i]
		t, ok := counts[name]
		if !ok {
			t = &tally{oldestMtime: files[i].Mtime}
			counts[name] = t
		}
		t.count++
		if files[i].Mtime < t.oldestMtime {
			t.oldestMtime = files[i].Mtime
		}
	}

	best := ""
	var bestTally *tally
	for name, t := range counts {
		if bestTally == nil ||
			t.count > bestTally.count ||
			(t.count == bestTally.count && t.oldestMtime < bestTally.oldestMtime) {
			best = name
			bestTally = t
		}
	}
	return best
}
