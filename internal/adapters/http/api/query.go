// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/leaguelens/internal/app"
	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/domain/ranking"
)

// parseViewConfig extracts the shared view knobs from query parameters.
// Empty parameters stay zero so the service fills its defaults.
func parseViewConfig(r *http.Request, maxPageSize int) (service.ViewConfig, error) {
	q := r.URL.Query()
	cfg := service.ViewConfig{
		Period: model.Period(q.Get("period")),
		Metric: metric.Metric(q.Get("metric")),
		Search: q.Get("search"),
	}

	if cfg.Period != "" && !cfg.Period.Valid() {
		return cfg, fmt.Errorf("%w: period %q", ErrBadRequest, cfg.Period)
	}
	if cfg.Metric != "" && !cfg.Metric.Valid() {
		return cfg, fmt.Errorf("%w: metric %q", ErrBadRequest, cfg.Metric)
	}

	var err error
	if cfg.TopLimit, err = intParam(q.Get("top")); err != nil {
		return cfg, fmt.Errorf("%w: top", ErrBadRequest)
	}
	if cfg.TopicCount, err = intParam(q.Get("count")); err != nil {
		return cfg, fmt.Errorf("%w: count", ErrBadRequest)
	}
	if cfg.Page, err = intParam(q.Get("page")); err != nil {
		return cfg, fmt.Errorf("%w: page", ErrBadRequest)
	}
	if cfg.PerPage, err = intParam(q.Get("per_page")); err != nil {
		return cfg, fmt.Errorf("%w: per_page", ErrBadRequest)
	}
	if maxPageSize > 0 && cfg.PerPage > maxPageSize {
		return cfg, fmt.Errorf("%w: per_page exceeds %d", ErrBadRequest, maxPageSize)
	}

	if topics := strings.TrimSpace(q.Get("topics")); topics != "" {
		for _, slug := range strings.Split(topics, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				cfg.Topics = append(cfg.Topics, slug)
			}
		}
	}

	if sortSpec := q.Get("sort"); sortSpec != "" {
		ms, err := parseManualSort(sortSpec)
		if err != nil {
			return cfg, err
		}
		cfg.Sort = ms
	}
	return cfg, nil
}

// parseManualSort parses "slug:column" or "slug:column:direction".
func parseManualSort(spec string) (*ranking.ManualSort, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return nil, fmt.Errorf("%w: sort %q", ErrBadRequest, spec)
	}
	ms := &ranking.ManualSort{
		TopicSlug: parts[0],
		Column:    ranking.Column(parts[1]),
		Direction: ranking.Asc,
	}
	if len(parts) == 3 {
		ms.Direction = ranking.Direction(parts[2])
	}
	if !ms.Column.Valid() || !ms.Direction.Valid() {
		return nil, fmt.Errorf("%w: sort %q", ErrBadRequest, spec)
	}
	return ms, nil
}

// intParam parses a non-negative integer parameter, empty meaning zero.
func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}
