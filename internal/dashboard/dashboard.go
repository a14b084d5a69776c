package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/go-wait-dashboard/internal/backend"
	"github.com/mr1hm/go-wait-dashboard/internal/chart"
	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/models"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
	"github.com/mr1hm/go-wait-dashboard/internal/repository"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
	"github.com/mr1hm/go-wait-dashboard/internal/worker"
)

// Fetcher is the backend as the dashboard sees it.
type Fetcher interface {
	FetchWaitTimes(ctx context.Context) (*backend.WaitTimes, error)
	FetchHistorical(ctx context.Context, hours int) ([]models.Snapshot, error)
	ExportURL(format string) string
}

type Options struct {
	RefreshInterval  time.Duration
	CountdownSeconds int
	CountdownTick    time.Duration
	HistoryHours     int
	StalePolicy      string
	Workers          int
	QueueSize        int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RefreshInterval:  cfg.Refresh.Interval,
		CountdownSeconds: cfg.Refresh.CountdownSeconds,
		CountdownTick:    cfg.Refresh.CountdownTick,
		HistoryHours:     cfg.Refresh.HistoryHours,
		StalePolicy:      cfg.Refresh.StalePolicy,
		Workers:          cfg.Worker.Count,
		QueueSize:        cfg.Worker.BufferSize,
	}
}

// Dashboard owns the dashboard state. A single event-loop goroutine
// mutates it: ticker fires, fetch results and user commands are all
// funnelled through one channel. Readers get published Views.
type Dashboard struct {
	opts     Options
	fetcher  Fetcher
	store    repository.RecordStore
	renderer *render.Renderer
	trend    *chart.TrendAdapter
	severity *chart.DistributionAdapter

	pool      *worker.Pool[fetchJob]
	events    chan loopEvent
	published atomic.Pointer[View]

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	st state
}

type loopEvent struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

func New(opts Options, fetcher Fetcher, store repository.RecordStore, renderer *render.Renderer) *Dashboard {
	d := &Dashboard{
		opts:     opts,
		fetcher:  fetcher,
		store:    store,
		renderer: renderer,
		trend:    chart.NewTrendAdapter(),
		severity: chart.NewDistributionAdapter(),
		events:   make(chan loopEvent, 16),
		done:     make(chan struct{}),
		st: state{
			phase:     PhaseIdle,
			countdown: opts.CountdownSeconds,
			filter:    view.FilterAll,
			sort:      view.SortWaitDesc,
		},
	}
	d.publish()
	return d
}

// Start launches the event loop and the fetch workers, then issues the
// first load. It does not block.
func (d *Dashboard) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	d.pool = worker.NewPool(d.opts.Workers, d.opts.QueueSize, d.process)
	d.pool.Start(ctx)

	go d.run(ctx)
}

// Stop clears both timers, cancels in-flight fetches and drops the charts.
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		if d.cancel == nil {
			close(d.done)
			return
		}
		d.cancel()
		<-d.done
		d.pool.Stop()
		d.trend.Close()
		d.severity.Close()
		slog.Info("dashboard stopped")
	})
}

// View returns the most recently published state.
func (d *Dashboard) View() View {
	return *d.published.Load()
}

func (d *Dashboard) TrendChart() (*chart.Instance, bool) {
	return d.trend.Current()
}

func (d *Dashboard) SeverityChart() (*chart.Instance, bool) {
	return d.severity.Current()
}

func (d *Dashboard) publish() {
	v := d.st.snapshot()
	_, v.TrendChart = d.trend.Current()
	_, v.SeverityChart = d.severity.Current()
	d.published.Store(v)
}

// do runs fn on the event loop and waits until its effect is published.
func (d *Dashboard) do(ctx context.Context, fn func(ctx context.Context)) error {
	ev := loopEvent{fn: fn, done: make(chan struct{})}

	select {
	case d.events <- ev:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ev.done:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post hands a fetch result back to the loop. It gives up once the loop
// is shutting down.
func (d *Dashboard) post(ctx context.Context, fn func(ctx context.Context)) {
	select {
	case d.events <- loopEvent{fn: fn}:
	case <-ctx.Done():
	}
}
