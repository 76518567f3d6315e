// internal/availability/aggregate.go

// Package availability holds the domain rules for player availability:
// aggregating raw responses into per-player and per-date-group views, and
// writing response batches atomically.
package availability

import "sort"

// PlayerRef identifies a roster member in aggregation output.
type PlayerRef struct {
	ID   int64
	Name string
}

// Line is the slice of a match line the aggregator needs.
type Line struct {
	ID         int64
	LineNumber int64
	LineType   string
	CustomDate string
	CustomTime string
}

// Response is one raw availability row. A nil MatchLineID means the response
// covers the whole match.
type Response struct {
	PlayerID    int64
	MatchLineID *int64
	Available   bool
}

// GroupKey identifies a date-option group: the literal (date, time) pair of
// the lines in it. Both fields are empty for the implicit whole-match group.
type GroupKey struct {
	Date string
	Time string
}

// Summary is the aggregated view of a match's availability.
type Summary struct {
	// Name-ordered buckets for the whole-player roll-up.
	Available   []PlayerRef
	Unavailable []PlayerRef
	NoResponse  []PlayerRef

	// GroupOrder lists date groups in first-line order; Groups maps each
	// group to per-player availability for players who responded to it.
	GroupOrder []GroupKey
	Groups     map[GroupKey]map[int64]bool
}

// Aggregate merges raw availability rows into per-player buckets and, for
// custom-dated matches, per-date-group maps. It is a pure function: the same
// inputs always produce the same Summary.
//
// Within a date group, a player marked available on any line of the group is
// available for the group, even if other lines in the same group say
// unavailable. The whole-player roll-up uses the same any-row-wins rule, so
// the two views never contradict each other.
func Aggregate(useCustomDates bool, lines []Line, roster []PlayerRef, responses []Response) Summary {
	groupOrder, lineGroup := buildGroups(useCustomDates, lines)

	groups := make(map[GroupKey]map[int64]bool, len(groupOrder))
	for _, key := range groupOrder {
		groups[key] = make(map[int64]bool)
	}

	// anyAvailable / anyResponse drive the whole-player roll-up.
	anyAvailable := make(map[int64]bool)
	anyResponse := make(map[int64]bool)

	for _, r := range responses {
		key, ok := groupForResponse(useCustomDates, lineGroup, r)
		if !ok {
			// Response references a line that no longer exists. Ignore it for
			// grouping; the raw row stays in the store untouched.
			continue
		}

		anyResponse[r.PlayerID] = true
		if r.Available {
			anyAvailable[r.PlayerID] = true
		}

		group := groups[key]
		// Available wins over unavailable within a group.
		group[r.PlayerID] = group[r.PlayerID] || r.Available
	}

	summary := Summary{
		GroupOrder: groupOrder,
		Groups:     groups,
	}

	sorted := make([]PlayerRef, len(roster))
	copy(sorted, roster)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, p := range sorted {
		switch {
		case anyAvailable[p.ID]:
			summary.Available = append(summary.Available, p)
		case anyResponse[p.ID]:
			summary.Unavailable = append(summary.Unavailable, p)
		default:
			summary.NoResponse = append(summary.NoResponse, p)
		}
	}

	return summary
}

// buildGroups returns date groups in first-line order plus a line-id -> group
// index. Without custom dates there is a single implicit group keyed by the
// empty GroupKey, answered by whole-match (NULL line) responses.
func buildGroups(useCustomDates bool, lines []Line) ([]GroupKey, map[int64]GroupKey) {
	if !useCustomDates {
		return []GroupKey{{}}, nil
	}

	var order []GroupKey
	seen := make(map[GroupKey]bool)
	lineGroup := make(map[int64]GroupKey, len(lines))

	for _, l := range lines {
		// Lines sharing the literal (date, time) pair form one group even if
		// their numbers or types differ.
		key := GroupKey{Date: l.CustomDate, Time: l.CustomTime}
		lineGroup[l.ID] = key
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	return order, lineGroup
}

func groupForResponse(useCustomDates bool, lineGroup map[int64]GroupKey, r Response) (GroupKey, bool) {
	if !useCustomDates {
		// Per-line rows can linger after a captain turns custom dates off;
		// fold them into the implicit whole-match group rather than dropping
		// the player's answer.
		return GroupKey{}, true
	}
	if r.MatchLineID == nil {
		// A whole-match row on a custom-dated match is the inverse leftover.
		// There is no date group it belongs to, so it is skipped entirely;
		// both views stay derived from the same grouped rows.
		return GroupKey{}, false
	}
	key, ok := lineGroup[*r.MatchLineID]
	return key, ok
}
