package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/mr1hm/go-wait-dashboard/internal/backend"
	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/models"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

type fetchKind int

const (
	fetchWaitTimes fetchKind = iota
	fetchHistory
	fetchAlertsList
)

type fetchJob struct {
	kind fetchKind
	gen  uint64
}

func (d *Dashboard) run(ctx context.Context) {
	defer close(d.done)
	slog.Info("dashboard starting", "refresh_interval", d.opts.RefreshInterval, "stale_policy", d.opts.StalePolicy)

	refresh := time.NewTicker(d.opts.RefreshInterval)
	defer refresh.Stop()

	countdown := time.NewTicker(d.opts.CountdownTick)
	defer countdown.Stop()

	// Initial load
	d.startFetch(false)
	d.publish()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dashboard loop shutting down")
			return
		case <-refresh.C:
			d.startFetch(false)
			d.publish()
		case <-countdown.C:
			d.tick()
			d.publish()
		case ev := <-d.events:
			ev.fn(ctx)
			d.publish()
			if ev.done != nil {
				close(ev.done)
			}
		}
	}
}

// tick moves the visible countdown. It wraps at zero whether or not a
// fetch has completed.
func (d *Dashboard) tick() {
	d.st.countdown--
	if d.st.countdown <= 0 {
		d.st.countdown = d.opts.CountdownSeconds
	}
}

// startFetch issues a wait-times request under a new generation. A
// manual refresh also restarts the countdown; the refresh ticker keeps
// its own schedule.
func (d *Dashboard) startFetch(manual bool) {
	d.st.issued++
	gen := d.st.issued

	if d.st.phase == PhaseIdle {
		d.st.phase = PhaseLoading
	}
	if manual {
		d.st.countdown = d.opts.CountdownSeconds
		d.st.refreshing = true
		d.st.manualGen = gen
	}

	if !d.pool.TrySubmit(fetchJob{kind: fetchWaitTimes, gen: gen}) {
		slog.Warn("fetch queue full, skipping refresh", "generation", gen)
		d.st.resolved++
		if manual {
			d.st.refreshing = false
		}
		return
	}
	slog.Debug("refresh issued", "generation", gen, "manual", manual)
}

// process runs on a pool worker. It does the network call and posts the
// outcome back to the loop.
func (d *Dashboard) process(ctx context.Context, job fetchJob) {
	switch job.kind {
	case fetchWaitTimes:
		data, err := d.fetcher.FetchWaitTimes(ctx)
		d.post(ctx, func(ctx context.Context) {
			d.applyWaitTimes(ctx, job.gen, data, err)
		})
	case fetchHistory:
		snapshots, err := d.fetcher.FetchHistorical(ctx, d.opts.HistoryHours)
		d.post(ctx, func(ctx context.Context) {
			d.applyHistory(snapshots, err)
		})
	case fetchAlertsList:
		data, err := d.fetcher.FetchWaitTimes(ctx)
		d.post(ctx, func(ctx context.Context) {
			d.applyAlertsList(data, err)
		})
	}
}

// stale reports whether a response should be dropped because a newer
// one is already on screen.
func (d *Dashboard) stale(gen uint64) bool {
	return d.opts.StalePolicy == config.PolicyLatestRequest && gen < d.st.applied
}

func (d *Dashboard) applyWaitTimes(ctx context.Context, gen uint64, data *backend.WaitTimes, err error) {
	d.st.resolved++
	if gen == d.st.manualGen {
		d.st.refreshing = false
	}

	if d.stale(gen) {
		slog.Debug("discarding stale response", "generation", gen, "applied", d.st.applied)
		return
	}
	d.st.applied = gen

	if err != nil {
		d.fail(gen, err)
		return
	}

	if err := d.store.Replace(ctx, data.Data); err != nil {
		d.fail(gen, err)
		return
	}

	d.st.stats = data.Stats
	d.st.alerts = data.Alerts
	d.st.lastUpdated = data.LastUpdated
	d.st.lastErr = ""
	d.st.phase = PhaseReady

	records := d.rerender(ctx)
	if err := d.severity.Redraw(records); err != nil {
		slog.Error("severity chart redraw failed", "error", err)
	}
	if !d.pool.TrySubmit(fetchJob{kind: fetchHistory}) {
		slog.Warn("fetch queue full, skipping history")
	}

	slog.Info("wait times updated", "generation", gen, "hospitals", len(data.Data), "alerts", len(data.Alerts))
}

// fail flips to the error view. The store and the last frame stay as
// they were.
func (d *Dashboard) fail(gen uint64, err error) {
	d.st.phase = PhaseError
	d.st.lastErr = err.Error()
	slog.Error("wait times fetch failed", "generation", gen, "error", err)
}

// rerender recomputes the displayed list from the store and redraws the
// frame. It returns the full store contents.
func (d *Dashboard) rerender(ctx context.Context) []models.HospitalRecord {
	all, err := d.store.All(ctx)
	if err != nil {
		slog.Error("reading record store failed", "error", err)
		return nil
	}

	displayed := view.Apply(all, d.st.filter, d.st.sort)
	frame, err := d.renderer.Frame(displayed, d.st.stats, d.st.alerts)
	if err != nil {
		slog.Error("render failed", "error", err)
		return all
	}

	d.st.records = displayed
	d.st.total = len(all)
	d.st.frame = frame
	return all
}

func (d *Dashboard) applyHistory(snapshots []models.Snapshot, err error) {
	if err != nil {
		slog.Error("loading chart data failed", "error", err)
		return
	}
	if err := d.trend.Redraw(snapshots); err != nil {
		slog.Error("trend chart redraw failed", "error", err)
	}
}

func (d *Dashboard) applyAlertsList(data *backend.WaitTimes, err error) {
	if err != nil {
		slog.Error("loading alerts failed", "error", err)
		return
	}
	d.st.alertsList = data.Alerts
	d.st.alertsLoaded = true
}
