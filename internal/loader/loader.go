// Package loader fetches and normalizes leaderboard snapshots from the
// upstream static document store.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/pkg/logger"
	"github.com/okian/leaguelens/pkg/metrics"
)

// defaultLookbackDays bounds the date probe for per-topic snapshots.
const defaultLookbackDays = 7

// defaultFetchWorkers sizes the fan-out pool when the caller does not.
const defaultFetchWorkers = 8

// Loader orchestrates catalog, leaderboard, and global document fetches for
// one source.
type Loader struct {
	client       *Client
	source       model.SourceKind
	lookbackDays int
	workers      int
	now          func() time.Time
	log          logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLookbackDays bounds the date probe window.
func WithLookbackDays(days int) Option {
	return func(l *Loader) {
		if days > 0 {
			l.lookbackDays = days
		}
	}
}

// WithFetchWorkers sizes the concurrent fetch pool.
func WithFetchWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithClock overrides the time source for the date probe.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a Loader for the given source backed by client.
func New(client *Client, source model.SourceKind, opts ...Option) *Loader {
	l := &Loader{
		client:       client,
		source:       source,
		lookbackDays: defaultLookbackDays,
		workers:      defaultFetchWorkers,
		now:          time.Now,
		log:          logger.Named("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadTopics fetches the source's topic catalog and returns the eligible
// topics in slug order. The global source has no raw catalog; its topics
// are derived from the precomputed profile document. Other sources fall
// back to that derivation when the catalog document is missing.
func (l *Loader) LoadTopics(ctx context.Context) ([]model.Topic, error) {
	if l.source == model.SourceGlobal {
		return l.topicsFromGlobalDoc(ctx)
	}

	var raw json.RawMessage
	path := fmt.Sprintf("/%s_topics_raw.json", l.source)
	if err := l.client.getJSON(ctx, path, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			if topics, gerr := l.topicsFromGlobalDoc(ctx); gerr == nil {
				return topics, nil
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrTopicCatalog, err)
	}
	topics, err := decodeTopics(l.source, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopicCatalog, err)
	}
	sortTopics(topics)
	return topics, nil
}

// topicsFromGlobalDoc derives a slug catalog from the latest.json document.
func (l *Loader) topicsFromGlobalDoc(ctx context.Context) ([]model.Topic, error) {
	profiles, err := l.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopicCatalog, err)
	}
	topics := TopicsFromGlobal(profiles)
	sortTopics(topics)
	return topics, nil
}

func sortTopics(topics []model.Topic) {
	sort.Slice(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
}

// LoadLeaderboard fetches the newest per-topic snapshot for one period by
// probing backwards over the lookback window, newest date first. A topic
// with no snapshot inside the window yields zero entries, not an error.
func (l *Loader) LoadLeaderboard(ctx context.Context, slug string, period model.Period) ([]model.Entry, error) {
	today := l.now().UTC()
	for i := 0; i < l.lookbackDays; i++ {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		path := fmt.Sprintf("/leaderboards/%s/%s/%s-%s.json", slug, date, l.source, period)

		var raw json.RawMessage
		err := l.client.getJSON(ctx, path, &raw)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		entries, err := decodeEntries(raw)
		if err != nil {
			return nil, err
		}
		return entries, nil
	}

	metrics.RecordProbeMiss()
	return nil, nil
}

// LoadGlobal fetches the precomputed global profile document.
func (l *Loader) LoadGlobal(ctx context.Context) ([]GlobalProfile, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/leaderboards/%s_global/latest.json", l.source)
	if err := l.client.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeGlobal(raw)
}

// LoadAll fans the topic catalog out across topic x period fetches and
// collects the resulting snapshots. Individual fetch failures are absorbed
// and logged; only a missing topic catalog is fatal. Snapshot order is
// stable (slug, then period) regardless of completion order.
func (l *Loader) LoadAll(ctx context.Context, periods []model.Period) ([]model.TopicSnapshot, []model.Topic, error) {
	if l.source == model.SourceGlobal {
		return l.loadAllGlobal(ctx, periods)
	}

	topics, err := l.LoadTopics(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu        sync.Mutex
		snapshots []model.TopicSnapshot
	)

	pool := pond.NewPool(l.workers)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, topic := range topics {
		for _, period := range periods {
			group.Submit(func() {
				if err := groupCtx.Err(); err != nil {
					return
				}
				entries, err := l.LoadLeaderboard(groupCtx, topic.Slug, period)
				if err != nil {
					metrics.RecordSnapshotFetchError(string(l.source), string(period))
					l.log.Warn(groupCtx, "leaderboard fetch failed",
						logger.String("topic", topic.Slug),
						logger.String("period", string(period)),
						logger.Error(err),
					)
					return
				}
				metrics.RecordSnapshotFetch(string(l.source), string(period))
				metrics.RecordSnapshotEntries(string(l.source), string(period), len(entries))
				if len(entries) == 0 {
					return
				}
				mu.Lock()
				snapshots = append(snapshots, model.TopicSnapshot{
					Topic:   topic,
					Period:  period,
					Entries: entries,
				})
				mu.Unlock()
			})
		}
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		l.log.Warn(ctx, "snapshot fan-out finished with error", logger.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sortSnapshots(snapshots)
	return snapshots, topics, nil
}

// loadAllGlobal builds the snapshot universe from the precomputed profile
// document in a single fetch: the document is both the catalog and the
// per-topic data, so its absence is fatal the same way a missing raw
// catalog is.
func (l *Loader) loadAllGlobal(ctx context.Context, periods []model.Period) ([]model.TopicSnapshot, []model.Topic, error) {
	profiles, err := l.LoadGlobal(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTopicCatalog, err)
	}
	topics := TopicsFromGlobal(profiles)
	sortTopics(topics)

	wanted := make(map[model.Period]struct{}, len(periods))
	for _, p := range periods {
		wanted[p] = struct{}{}
	}

	var snapshots []model.TopicSnapshot
	for _, snap := range SnapshotsFromGlobal(profiles, topics) {
		if _, ok := wanted[snap.Period]; !ok {
			continue
		}
		metrics.RecordSnapshotFetch(string(l.source), string(snap.Period))
		metrics.RecordSnapshotEntries(string(l.source), string(snap.Period), len(snap.Entries))
		snapshots = append(snapshots, snap)
	}

	sortSnapshots(snapshots)
	return snapshots, topics, nil
}

func sortSnapshots(snapshots []model.TopicSnapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Topic.Slug != snapshots[j].Topic.Slug {
			return snapshots[i].Topic.Slug < snapshots[j].Topic.Slug
		}
		return snapshots[i].Period < snapshots[j].Period
	})
}
