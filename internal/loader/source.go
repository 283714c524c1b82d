package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/okian/leaguelens/internal/domain/model"
)

// Raw upstream shapes. Rank and point fields arrive as JSON numbers and may
// be fractional or missing, so everything lands in *float64 first and is
// converted with finiteness guards during normalization.

type rawXeetTopic struct {
	TopicSlug   string `json:"topicSlug"`
	Title       string `json:"title"`
	LogoURL     string `json:"logoUrl"`
	Banner      string `json:"banner"`
	Description string `json:"description"`
	EndDate     string `json:"endDate"`
	IsLeague    bool   `json:"isLeague"`
}

type rawWallchainTopic struct {
	CompanyID          string `json:"companyId"`
	CompanyName        string `json:"companyName"`
	LogoURL            string `json:"logoUrl"`
	BackgroundImageURL string `json:"backgroundImageUrl"`
	Description        string `json:"description"`
	Section            string `json:"section"`
	Countdown          *struct {
		EndDate string `json:"endDate"`
	} `json:"countdown"`
}

type rawEntry struct {
	UserID        string `json:"userId"`
	TwitterID     string `json:"twitterId"`
	ID            string `json:"id"`
	Username      string `json:"username"`
	Handle        string `json:"handle"`
	TwitterHandle string `json:"twitter_handle"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatarUrl"`

	Rank       *float64 `json:"rank"`
	RankTotal  *float64 `json:"rankTotal"`
	RankSignal *float64 `json:"rankSignal"`
	RankNoise  *float64 `json:"rankNoise"`

	TotalPoints  *float64 `json:"totalPoints"`
	SignalPoints *float64 `json:"signalPoints"`
	NoisePoints  *float64 `json:"noisePoints"`
}

// GlobalTopicEntry is one topic placement inside a precomputed global
// profile document.
type GlobalTopicEntry struct {
	TopicSlug string `json:"topicSlug"`
	Period    string `json:"period"`

	Rank       *float64 `json:"rank"`
	RankTotal  *float64 `json:"rankTotal"`
	RankSignal *float64 `json:"rankSignal"`
	RankNoise  *float64 `json:"rankNoise"`

	TotalPoints  *float64 `json:"totalPoints"`
	SignalPoints *float64 `json:"signalPoints"`
	NoisePoints  *float64 `json:"noisePoints"`
}

// GlobalProfile is one profile from a precomputed latest.json document with
// its per-period topic placements embedded.
type GlobalProfile struct {
	UserID    string             `json:"userId"`
	TwitterID string             `json:"twitterId"`
	Handle    string             `json:"handle"`
	Name      string             `json:"name"`
	AvatarURL string             `json:"avatarUrl"`
	Topics    []GlobalTopicEntry `json:"topics"`
}

// decodeTopics normalizes a topic catalog document for the given source.
// Xeet catalogs arrive wrapped in {data: [...]} and only league topics are
// eligible; wallchain catalogs are bare arrays and finished campaigns are
// dropped.
func decodeTopics(source model.SourceKind, data []byte) ([]model.Topic, error) {
	switch source {
	case model.SourceXeet:
		var doc struct {
			Data []rawXeetTopic `json:"data"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			// Some mirrors serve the catalog unwrapped.
			if err2 := json.Unmarshal(data, &doc.Data); err2 != nil {
				return nil, fmt.Errorf("%w: xeet topics: %w", ErrDecodeFailed, err)
			}
		}
		topics := make([]model.Topic, 0, len(doc.Data))
		for _, t := range doc.Data {
			if !t.IsLeague || t.TopicSlug == "" {
				continue
			}
			topics = append(topics, model.Topic{
				Slug:        t.TopicSlug,
				Title:       firstNonEmpty(t.Title, t.TopicSlug),
				LogoURL:     t.LogoURL,
				BannerURL:   t.Banner,
				Description: t.Description,
				EndDate:     t.EndDate,
			})
		}
		return topics, nil

	case model.SourceWallchain:
		var raw []rawWallchainTopic
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: wallchain topics: %w", ErrDecodeFailed, err)
		}
		topics := make([]model.Topic, 0, len(raw))
		for _, t := range raw {
			if t.Section == "finished" || t.CompanyID == "" {
				continue
			}
			endDate := ""
			if t.Countdown != nil {
				endDate = t.Countdown.EndDate
			}
			topics = append(topics, model.Topic{
				Slug:        t.CompanyID,
				Title:       firstNonEmpty(t.CompanyName, t.CompanyID),
				LogoURL:     t.LogoURL,
				BannerURL:   t.BackgroundImageURL,
				Description: t.Description,
				EndDate:     endDate,
			})
		}
		return topics, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// decodeEntries normalizes a per-topic leaderboard document. Documents are
// either a bare array or wrapped in {data: [...]}. Position in the document
// defines the generic rank when the entry carries none of its own.
func decodeEntries(data []byte) ([]model.Entry, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		var doc struct {
			Data []rawEntry `json:"data"`
		}
		if err2 := json.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("%w: leaderboard: %w", ErrDecodeFailed, err)
		}
		raw = doc.Data
	}

	entries := make([]model.Entry, 0, len(raw))
	for i, r := range raw {
		e := model.Entry{
			UserID:       r.UserID,
			TwitterID:    r.TwitterID,
			Handle:       firstNonEmpty(r.Username, r.Handle, r.TwitterHandle),
			Name:         r.Name,
			AvatarURL:    r.AvatarURL,
			Rank:         rankFromFloat(r.Rank),
			RankTotal:    rankFromFloat(r.RankTotal),
			RankSignal:   rankFromFloat(r.RankSignal),
			RankNoise:    rankFromFloat(r.RankNoise),
			TotalPoints:  finiteFloat(r.TotalPoints),
			SignalPoints: finiteFloat(r.SignalPoints),
			NoisePoints:  finiteFloat(r.NoisePoints),
		}
		if e.Identity() == "" && r.ID != "" {
			e.Handle = firstNonEmpty(e.Handle, r.ID)
		}
		if e.Identity() == "" {
			continue
		}
		if e.Rank == nil {
			e.Rank = model.IntPtr(i + 1)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// decodeGlobal normalizes a precomputed latest.json document: a bare array
// of profiles, or {profiles: [...]} as the wallchain exporter writes it.
func decodeGlobal(data []byte) ([]GlobalProfile, error) {
	var profiles []GlobalProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		var doc struct {
			Profiles []GlobalProfile `json:"profiles"`
		}
		if err2 := json.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("%w: global profiles: %w", ErrDecodeFailed, err)
		}
		profiles = doc.Profiles
	}
	return profiles, nil
}

// SnapshotsFromGlobal regroups the per-profile embedded topic entries into
// per-topic snapshots so the aggregator consumes both document families
// through the same path. Topics unseen in the catalog get a slug-only stub.
func SnapshotsFromGlobal(profiles []GlobalProfile, catalog []model.Topic) []model.TopicSnapshot {
	titles := make(map[string]model.Topic, len(catalog))
	for _, t := range catalog {
		titles[t.Slug] = t
	}

	type key struct {
		slug   string
		period model.Period
	}
	grouped := make(map[key][]model.Entry)
	for _, p := range profiles {
		for _, te := range p.Topics {
			period := model.Period(te.Period)
			if !period.Valid() || te.TopicSlug == "" {
				continue
			}
			e := model.Entry{
				UserID:       p.UserID,
				TwitterID:    p.TwitterID,
				Handle:       p.Handle,
				Name:         p.Name,
				AvatarURL:    p.AvatarURL,
				Rank:         rankFromFloat(te.Rank),
				RankTotal:    rankFromFloat(te.RankTotal),
				RankSignal:   rankFromFloat(te.RankSignal),
				RankNoise:    rankFromFloat(te.RankNoise),
				TotalPoints:  finiteFloat(te.TotalPoints),
				SignalPoints: finiteFloat(te.SignalPoints),
				NoisePoints:  finiteFloat(te.NoisePoints),
			}
			if e.Identity() == "" {
				continue
			}
			if e.Rank == nil && e.RankTotal != nil {
				e.Rank = e.RankTotal
			}
			k := key{slug: te.TopicSlug, period: period}
			grouped[k] = append(grouped[k], e)
		}
	}

	snapshots := make([]model.TopicSnapshot, 0, len(grouped))
	for k, entries := range grouped {
		topic, ok := titles[k.slug]
		if !ok {
			topic = model.Topic{Slug: k.slug, Title: k.slug}
		}
		snapshots = append(snapshots, model.TopicSnapshot{
			Topic:   topic,
			Period:  k.period,
			Entries: entries,
		})
	}
	return snapshots
}

// TopicsFromGlobal derives a slug-only catalog from a global profile
// document, used when the raw catalog cannot be fetched.
func TopicsFromGlobal(profiles []GlobalProfile) []model.Topic {
	seen := make(map[string]struct{})
	var topics []model.Topic
	for _, p := range profiles {
		for _, te := range p.Topics {
			if te.TopicSlug == "" {
				continue
			}
			if _, ok := seen[te.TopicSlug]; ok {
				continue
			}
			seen[te.TopicSlug] = struct{}{}
			topics = append(topics, model.Topic{Slug: te.TopicSlug, Title: te.TopicSlug})
		}
	}
	return topics
}

// rankFromFloat converts an upstream numeric rank to an int pointer. Zero,
// negative, and non-finite values do not qualify as ranks.
func rankFromFloat(v *float64) *int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 1 {
		return nil
	}
	return model.IntPtr(int(*v))
}

func finiteFloat(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return model.FloatPtr(*v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
