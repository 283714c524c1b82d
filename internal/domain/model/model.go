// Package model contains the canonical leaderboard schema passed between layers.
//
// Everything downstream of the loader operates on these types only; raw
// per-source JSON shapes never leak past normalization.
package model

import (
	"sort"
	"strings"
)

// Period is an aggregation window for a leaderboard snapshot.
type Period string

// Supported aggregation windows.
const (
	Period7D         Period = "7d"
	Period30D        Period = "30d"
	PeriodTournament Period = "tournament"
)

// Valid reports whether p is one of the supported windows.
func (p Period) Valid() bool {
	switch p {
	case Period7D, Period30D, PeriodTournament:
		return true
	}
	return false
}

// Periods lists all supported windows in a stable order.
func Periods() []Period {
	return []Period{Period7D, Period30D, PeriodTournament}
}

// SourceKind identifies which upstream league the data comes from. Slug
// namespaces are disjoint between sources.
type SourceKind string

// Known sources.
const (
	SourceXeet      SourceKind = "xeet"
	SourceWallchain SourceKind = "wallchain"
	SourceGlobal    SourceKind = "global"
)

// Valid reports whether s is a known source.
func (s SourceKind) Valid() bool {
	switch s {
	case SourceXeet, SourceWallchain, SourceGlobal:
		return true
	}
	return false
}

// Topic is a named ranking category. Immutable after load.
type Topic struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Description string `json:"description,omitempty"`
	BannerURL   string `json:"bannerUrl,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// Entry is one profile's placement in one topic snapshot for one period,
// already normalized from the source-specific raw shape.
//
// Rank fields use pointers so "absent" is distinguishable from rank 0; a
// normalized entry always carries at least one rank field.
type Entry struct {
	UserID    string `json:"userId,omitempty"`
	TwitterID string `json:"twitterId,omitempty"`
	Handle    string `json:"handle,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	Rank       *int `json:"rank,omitempty"`
	RankTotal  *int `json:"rankTotal,omitempty"`
	RankSignal *int `json:"rankSignal,omitempty"`
	RankNoise  *int `json:"rankNoise,omitempty"`

	TotalPoints  *float64 `json:"totalPoints,omitempty"`
	SignalPoints *float64 `json:"signalPoints,omitempty"`
	NoisePoints  *float64 `json:"noisePoints,omitempty"`
}

// Identity returns the stable profile identity for an entry: platform user
// id when present, else twitter id, else the lower-cased handle. Empty when
// the entry carries no identity at all; such entries are dropped during
// normalization.
func (e Entry) Identity() string {
	switch {
	case e.UserID != "":
		return e.UserID
	case e.TwitterID != "":
		return e.TwitterID
	case e.Handle != "":
		return strings.ToLower(e.Handle)
	}
	return ""
}

// Standing is one profile's rank/point record for one topic under the
// period the profile map was built for.
type Standing struct {
	Rank       *int `json:"rank,omitempty"`
	RankTotal  *int `json:"rankTotal,omitempty"`
	RankSignal *int `json:"rankSignal,omitempty"`
	RankNoise  *int `json:"rankNoise,omitempty"`

	TotalPoints  *float64 `json:"totalPoints,omitempty"`
	SignalPoints *float64 `json:"signalPoints,omitempty"`
	NoisePoints  *float64 `json:"noisePoints,omitempty"`

	// Ratio is noisePoints/signalPoints*100, set only when both point
	// values are present. RatioRank orders profiles by ascending ratio
	// within a topic.
	Ratio     *float64 `json:"ratio,omitempty"`
	RatioRank *int     `json:"ratioRank,omitempty"`
}

// Profile is a unique account aggregated across topics for one period.
type Profile struct {
	ID        string `json:"id"`
	Handle    string `json:"handle,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Standings maps topic slug to the qualifying record. Never empty: a
	// profile with no qualifying entry is not present in the map at all.
	Standings map[string]Standing `json:"standings"`
}

// Topics returns the slugs the profile qualifies in, sorted lexicographically.
func (p *Profile) Topics() []string {
	slugs := make([]string, 0, len(p.Standings))
	for slug := range p.Standings {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// TopicCount returns the number of topics the profile qualifies in. When
// selection is non-empty the count is restricted to the selected slugs.
func (p *Profile) TopicCount(selection []string) int {
	if len(selection) == 0 {
		return len(p.Standings)
	}
	n := 0
	for _, slug := range selection {
		if _, ok := p.Standings[slug]; ok {
			n++
		}
	}
	return n
}

// SortName is the case-insensitive alphabetical tie-break key: display name,
// else handle, else id.
func (p *Profile) SortName() string {
	switch {
	case p.Name != "":
		return strings.ToLower(p.Name)
	case p.Handle != "":
		return strings.ToLower(p.Handle)
	}
	return strings.ToLower(p.ID)
}

// TopicSnapshot bundles a topic's normalized entries for one period. This is
// the aggregator's input unit.
type TopicSnapshot struct {
	Topic   Topic   `json:"topic"`
	Period  Period  `json:"period"`
	Entries []Entry `json:"entries"`
}

// OverlapGroup collects profiles sharing an identical topic-set membership.
type OverlapGroup struct {
	// Key is the sorted, deduplicated slug list joined with " | "; it is
	// canonical regardless of discovery order.
	Key      string     `json:"key"`
	Topics   []string   `json:"topics"`
	Profiles []*Profile `json:"profiles"`
}

// Size returns the number of member profiles.
func (g OverlapGroup) Size() int {
	return len(g.Profiles)
}

// FarmingMetric is the per-topic farming/organic statistic.
type FarmingMetric struct {
	TopicSlug         string     `json:"topicSlug"`
	FarmingScore      float64    `json:"farmingScore"`
	OrganicIndex      float64    `json:"organicIndex"`
	ExclusiveTopCount int        `json:"exclusiveTopCount"`
	ExclusiveProfiles []*Profile `json:"exclusiveProfiles"`
	TopProfiles       []*Profile `json:"topProfiles"`
}

// IntPtr is a convenience constructor used by tests and normalizers.
func IntPtr(v int) *int { return &v }

// FloatPtr is a convenience constructor used by tests and normalizers.
func FloatPtr(v float64) *float64 { return &v }
