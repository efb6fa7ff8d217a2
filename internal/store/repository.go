package store

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/sequence"
)

// Repository maps settings profiles and charts onto a KV.
type Repository struct {
	kv KV
}

// NewRepository wraps kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

func settingsKey(profile string) string { return "settings:" + profile }

func chartKey(id string) string { return "chart:" + id }

// SaveSettings stores the charting settings of a profile.
func (r *Repository) SaveSettings(ctx context.Context, profile string, s charting.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	return r.kv.Put(ctx, settingsKey(profile), data, 0)
}

// LoadSettings returns the settings of a profile, or the defaults when the
// profile was never saved.
func (r *Repository) LoadSettings(ctx context.Context, profile string) (charting.Settings, error) {
	data, err := r.kv.Get(ctx, settingsKey(profile))
	if errors.Is(err, ErrNotFound) {
		return charting.DefaultSettings(), nil
	}
	if err != nil {
		return charting.Settings{}, err
	}
	s := charting.DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return charting.Settings{}, errors.Wrapf(err, "decode settings %q", profile)
	}
	if err := sequence.ValidateSegments(s.Segments); err != nil {
		return charting.Settings{}, errors.WithHint(
			errors.Wrapf(err, "settings %q", profile),
			"fix the segment order with 'perioflow settings set --segments'")
	}
	return s, nil
}

// SaveChart stores a chart under its ID.
func (r *Repository) SaveChart(ctx context.Context, c *chart.Chart) error {
	if c.ID == "" {
		return errors.New("chart has no id")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode chart")
	}
	return r.kv.Put(ctx, chartKey(c.ID), data, 0)
}

// LoadChart returns the chart stored under id.
func (r *Repository) LoadChart(ctx context.Context, id string) (*chart.Chart, error) {
	data, err := r.kv.Get(ctx, chartKey(id))
	if err != nil {
		return nil, errors.Wrapf(err, "load chart %s", id)
	}
	var c chart.Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "decode chart %s", id)
	}
	return &c, nil
}

// DeleteChart removes a chart.
func (r *Repository) DeleteChart(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, chartKey(id))
}
