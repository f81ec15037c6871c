package facade

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// pluginClusterThreshold is the Levenshtein similarity floor two plugin
// names must clear to be folded into the same cluster.
// Fixed rather than configurable: this is a cosmetic de-duplication pass,
// not a scoring knob a user should need to tune.
const pluginClusterThreshold = 0.75

// PluginUsage is one row of the plugin usage report: a canonical name and
// the number of files referencing it (directly or via a fuzzy-matched
// spelling variant).
type PluginUsage struct {
	Name  string
	Count int
}

// ListPlugins aggregates FileRecord.Plugins across every persisted file,
// fuzzy-grouping near-duplicate spellings (e.g. "Sylenth1", "Sylenth 1")
// with go-edlib Levenshtein distance. Read-only: it
// never writes to the store.
func (e *Engine) ListPlugins() ([]PluginUsage, error) {
	files, err := e.store.ListAllFiles()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	var order []string
	for _, f := range files {
		for _, name := range f.Plugins {
			if name == "" {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	clusters := clusterPluginNames(order, counts)

	usages := make([]PluginUsage, 0, len(clusters))
	for _, c := range clusters {
		usages = append(usages, c)
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].Name < usages[j].Name
	})
	return usages, nil
}

// clusterPluginNames greedily folds each distinct plugin name into the
// first existing cluster it's similar enough to, in first-seen order, so
// the result is deterministic regardless of map iteration order. The
// cluster's display name is whichever member has the highest individual
// count (most likely the "real" spelling).
func clusterPluginNames(names []string, counts map[string]int) []PluginUsage {
	type cluster struct {
		members []string
		total   int
	}
	var clusters []*cluster

	for _, name := range names {
		var target *cluster
		for _, c := range clusters {
			if pluginNameSimilarity(name, c.members[0]) >= pluginClusterThreshold {
				target = c
				break
			}
		}
		if target == nil {
			target = &cluster{}
			clusters = append(clusters, target)
		}
		target.members = append(target.members, name)
		target.total += counts[name]
	}

	usages := make([]PluginUsage, 0, len(clusters))
	for _, c := range clusters {
		usages = append(usages, PluginUsage{Name: bestClusterName(c.members, counts), Count: c.total})
	}
	return usages
}

func bestClusterName(members []string, counts map[string]int) string {
	best := members[0]
	for _, m := range members[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

// pluginNameSimilarity returns a 0-1 similarity score: go-edlib's
// Levenshtein algorithm normalizes edit distance to that range directly,
// so no further scaling is needed.
func pluginNameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
