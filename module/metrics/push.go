package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

// Pusher sends the metrics gathered during an analysis run to a Prometheus
// Pushgateway. Analysis runs are short-lived batch jobs, so the metrics are
// pushed once at the end of the run rather than scraped.
type Pusher struct {
	log    zerolog.Logger
	pusher *push.Pusher
	url    string
}

// NewPusher creates a Pusher for the metrics of gatherer, grouped under the given job name.
func NewPusher(log zerolog.Logger, url string, job string, gatherer prometheus.Gatherer) *Pusher {
	return &Pusher{
		log:    log.With().Str("component", "metrics_pusher").Logger(),
		pusher: push.New(url, job).Gatherer(gatherer),
		url:    url,
	}
}

// Grouping adds a grouping label to the pushed metrics.
func (p *Pusher) Grouping(name, value string) *Pusher {
	p.pusher = p.pusher.Grouping(name, value)
	return p
}

// Push replaces the metrics of the job on the Pushgateway.
func (p *Pusher) Push(ctx context.Context) error {
	if err := p.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("could not push metrics to %s: %w", p.url, err)
	}
	p.log.Info().Str("url", p.url).Msg("metrics pushed")
	return nil
}
