package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

// Refresh fetches now and restarts the countdown.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.do(ctx, func(ctx context.Context) {
		d.startFetch(true)
	})
}

func (d *Dashboard) SetFilter(ctx context.Context, f view.Filter) error {
	return d.do(ctx, func(ctx context.Context) {
		d.st.filter = f
		d.rerender(ctx)
	})
}

func (d *Dashboard) SetSort(ctx context.Context, key view.SortKey) error {
	return d.do(ctx, func(ctx context.Context) {
		d.st.sort = key
		d.rerender(ctx)
	})
}

// OpenModal shows an overlay. The alerts overlay loads its own copy of
// the alert list; the store is not touched.
func (d *Dashboard) OpenModal(ctx context.Context, m Modal) error {
	return d.do(ctx, func(ctx context.Context) {
		switch m {
		case ModalExport:
			d.st.exportOpen = true
		case ModalAlerts:
			d.st.alertsOpen = true
			d.st.alertsLoaded = false
			d.st.alertsList = nil
			if !d.pool.TrySubmit(fetchJob{kind: fetchAlertsList}) {
				slog.Warn("fetch queue full, skipping alerts list")
			}
		}
	})
}

func (d *Dashboard) CloseModal(ctx context.Context, m Modal) error {
	return d.do(ctx, func(ctx context.Context) {
		switch m {
		case ModalExport:
			d.st.exportOpen = false
		case ModalAlerts:
			d.st.alertsOpen = false
		}
	})
}

// Export closes the export overlay and returns where the browser should
// go to download format.
func (d *Dashboard) Export(ctx context.Context, format string) (string, error) {
	if format == "" {
		return "", errors.New("export format is required")
	}
	if err := d.CloseModal(ctx, ModalExport); err != nil {
		return "", err
	}
	return d.fetcher.ExportURL(format), nil
}
