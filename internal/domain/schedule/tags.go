package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	fireSafetySuffix = regexp.MustCompile(`[-_ ]*SPCI([-_ ]*\d+)?$`)
	qualifierSuffix  = regexp.MustCompile(`_[A-Z0-9]+$`)
)

// BaseTag strips the known suffix patterns from a TAG: first a fire-safety
// suffix (-SPCI, -SPCI-01, _SPCI), then an underscore qualifier (_B, _01).
func BaseTag(tag string) string {
	t := NormalizeTag(tag)
	base := fireSafetySuffix.ReplaceAllString(t, "")
	base = qualifierSuffix.ReplaceAllString(base, "")
	if base == "" {
		return t
	}
	return base
}

// IsFireSafetyTag reports whether tag carries the fire-safety suffix.
func IsFireSafetyTag(tag string) bool {
	return fireSafetySuffix.MatchString(NormalizeTag(tag))
}

// TagVariant is one full TAG observed for a base, with the days it appeared on.
type TagVariant struct {
	Tag  string    `json:"tag"`
	Days []Weekday `json:"days"`
}

// TagConflictGroup is a base TAG with more than one distinct full-TAG variant.
// It only exists while an import waits for an operator decision.
type TagConflictGroup struct {
	BaseTag  string       `json:"base_tag"`
	Variants []TagVariant `json:"variants"`
	Chosen   string       `json:"chosen"`
}

// Resolution maps a base TAG to the canonical TAG chosen by the operator.
type Resolution map[string]string

// DefaultResolution picks the first-encountered variant for every conflict.
func DefaultResolution(conflicts []TagConflictGroup) Resolution {
	res := make(Resolution, len(conflicts))
	for _, c := range conflicts {
		res[c.BaseTag] = c.Chosen
	}
	return res
}

// DetectConflicts groups entries by base TAG and returns every base with two or
// more distinct full TAGs, in first-encountered order. Bases with a single
// variant never appear.
func DetectConflicts(entries []WeekEntry) []TagConflictGroup {
	type group struct {
		variants []string
		days     map[string]map[Weekday]bool
	}
	groups := make(map[string]*group)
	var bases []string

	for _, e := range entries {
		base := BaseTag(e.Tag)
		g, ok := groups[base]
		if !ok {
			g = &group{days: make(map[string]map[Weekday]bool)}
			groups[base] = g
			bases = append(bases, base)
		}
		if _, seen := g.days[e.Tag]; !seen {
			g.variants = append(g.variants, e.Tag)
			g.days[e.Tag] = make(map[Weekday]bool)
		}
		for _, d := range e.Days() {
			g.days[e.Tag][d] = true
		}
	}

	var conflicts []TagConflictGroup
	for _, base := range bases {
		g := groups[base]
		if len(g.variants) < 2 {
			continue
		}
		conflict := TagConflictGroup{BaseTag: base, Chosen: g.variants[0]}
		for _, v := range g.variants {
			conflict.Variants = append(conflict.Variants, TagVariant{Tag: v, Days: sortedDays(g.days[v])})
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// ValidateResolution checks that every conflict base has a non-empty choice.
func ValidateResolution(conflicts []TagConflictGroup, res Resolution) error {
	var missing []string
	for _, c := range conflicts {
		if strings.TrimSpace(res[c.BaseTag]) == "" {
			missing = append(missing, c.BaseTag)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnresolvedConflict, strings.Join(missing, ", "))
	}
	return nil
}

// ApplyResolution rewrites every entry whose base TAG has a chosen canonical
// TAG, then regroups by (tag, day) so entries that now collide are merged.
func ApplyResolution(entries []WeekEntry, res Resolution) []WeekEntry {
	if len(res) == 0 {
		return entries
	}
	rewritten := make([]WeekEntry, len(entries))
	for i, e := range entries {
		if chosen := NormalizeTag(res[BaseTag(e.Tag)]); chosen != "" {
			e.Tag = chosen
		}
		rewritten[i] = e
	}
	return GroupByTagDay(rewritten)
}

func sortedDays(set map[Weekday]bool) []Weekday {
	days := make([]Weekday, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
	return days
}
