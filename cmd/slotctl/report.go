package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/yamlstore"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
	getAvailableDatesUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

// options параметры одного отчета
type options struct {
	OfferingID int64 // 0 - все услуги документа
	CustomerID *int64
	From       time.Time
	Days       int
	Now        time.Time // нулевое значение - текущее время
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// report считает календарь и слоты тем же путем, что и HTTP ручки
type report struct {
	slots *getAvailableSlotsUC.UseCase
	dates *getAvailableDatesUC.UseCase
	loc   *time.Location
}

func newReport(store *yamlstore.Store, now time.Time, logger Logger) *report {
	var timeProvider availability.TimeProvider = &availability.RealTimeProvider{}
	if !now.IsZero() {
		timeProvider = availability.FixedTimeProvider{At: now}
	}

	// метрики офлайн не собираются
	var noMetrics *metrics.Metrics

	engine := availability.NewEngine(timeProvider, store.Location())
	snapshots := snapshotService.NewService(store, nil, noMetrics, logger)

	return &report{
		slots: getAvailableSlotsUC.NewUseCase(snapshots, store, engine, noMetrics, logger),
		dates: getAvailableDatesUC.NewUseCase(snapshots, engine, 0, logger),
		loc:   store.Location(),
	}
}

// Write печатает по строке на каждую дату каждой услуги
func (r *report) Write(ctx context.Context, w io.Writer, offeringIDs []int64, opts options) error {
	from := time.Date(opts.From.Year(), opts.From.Month(), opts.From.Day(), 0, 0, 0, 0, r.loc)
	days := opts.Days
	if days <= 0 {
		days = 1
	}
	to := from.AddDate(0, 0, days-1)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFERING\tDATE\tDAY\tSTATUS\tLAYER\tSLOTS")

	for _, offeringID := range offeringIDs {
		calendar, err := r.dates.Execute(ctx, &getAvailableDatesUC.Request{OfferingID: offeringID, From: from, To: to})
		if err != nil {
			return fmt.Errorf("offering %d: %w", offeringID, err)
		}

		for _, day := range calendar.Days {
			weekday := domain.WeekdayOf(day.Date).String()[:3]
			if !day.Admissible {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t-\t-\n", offeringID, day.Date.Format(domain.DateFormat), weekday, day.Rejection)
				continue
			}

			resp, err := r.slots.Execute(ctx, &getAvailableSlotsUC.Request{
				OfferingID: offeringID,
				CustomerID: opts.CustomerID,
				Date:       day.Date,
			})
			if err != nil {
				return fmt.Errorf("offering %d, %s: %w", offeringID, day.Date.Format(domain.DateFormat), err)
			}

			status := "open"
			if len(resp.Slots) == 0 {
				status = "no slots"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", offeringID, day.Date.Format(domain.DateFormat), weekday,
				status, resp.WindowLayer, formatSlots(resp.Slots))
		}
	}

	return tw.Flush()
}

func formatSlots(slots []getAvailableSlotsUC.Slot) string {
	if len(slots) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		part := s.StartTime.String()
		if s.RemainingCapacity != nil {
			part = fmt.Sprintf("%s(%d)", part, *s.RemainingCapacity)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
