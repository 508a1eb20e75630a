// slotctl считает доступность услуг по YAML файлу без базы данных.
//
//	slotctl -file schedule.yaml -offering 2 -date 2026-10-20 -days 7
//	slotctl -file schedule.yaml -watch
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/yamlstore"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func main() {
	var (
		file     = flag.String("file", "schedule.yaml", "YAML файл с расписаниями")
		offering = flag.Int64("offering", 0, "ID услуги, 0 - все услуги")
		customer = flag.Int64("customer", 0, "ID клиента для лимита на клиента")
		date     = flag.String("date", "", "первая дата YYYY-MM-DD, по умолчанию сегодня")
		days     = flag.Int("days", 7, "сколько дней показать")
		now      = flag.String("now", "", "текущее время RFC3339, для воспроизводимых отчетов")
		watch    = flag.Bool("watch", false, "перечитывать файл при изменении")
		interval = flag.Duration("interval", 2*time.Second, "период проверки файла в режиме -watch")
		level    = flag.String("log-level", "warn", "уровень логов")
	)
	flag.Parse()

	log, err := logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, *level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(2)
	}

	opts := options{Days: *days}
	if *customer > 0 {
		opts.CustomerID = customer
	}
	if *now != "" {
		opts.Now, err = time.Parse(time.RFC3339, *now)
		if err != nil {
			log.Fatal("invalid -now %q: %v", *now, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		mu    sync.Mutex
		store *yamlstore.Store
	)

	render := func(doc *yamlstore.Document) {
		mu.Lock()
		defer mu.Unlock()

		if store == nil {
			store = yamlstore.NewStore(doc)
		} else {
			store.Replace(doc)
		}

		if err := run(ctx, store, *offering, *date, opts, log); err != nil {
			log.Error("slotctl: %v", err)
		}
	}

	if !*watch {
		doc, err := yamlstore.LoadDocument(*file)
		if err != nil {
			log.Fatal("slotctl: %v", err)
		}
		store = yamlstore.NewStore(doc)
		if err := run(ctx, store, *offering, *date, opts, log); err != nil {
			log.Fatal("slotctl: %v", err)
		}
		return
	}

	if err := yamlstore.Watch(ctx, *file, *interval, log, render); err != nil {
		log.Fatal("slotctl: %v", err)
	}
	<-ctx.Done()
}

func run(ctx context.Context, store *yamlstore.Store, offeringID int64, date string, opts options, log *logger.Logger) error {
	r := newReport(store, opts.Now, log)

	opts.From = opts.Now
	if opts.From.IsZero() {
		opts.From = time.Now()
	}
	opts.From = opts.From.In(store.Location())
	if date != "" {
		from, err := time.ParseInLocation(domain.DateFormat, date, store.Location())
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", date, err)
		}
		opts.From = from
	}

	ids := []int64{offeringID}
	if offeringID == 0 {
		ids = store.OfferingIDs()
	}

	return r.Write(ctx, os.Stdout, ids, opts)
}
