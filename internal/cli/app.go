package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmynk/beercounter/internal/config"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/metrics"
	"github.com/mmynk/beercounter/internal/notify"
	"github.com/mmynk/beercounter/internal/storage"
	"github.com/mmynk/beercounter/internal/storage/memory"
	"github.com/mmynk/beercounter/internal/storage/sqlite"
	"github.com/mmynk/beercounter/internal/workflow"
)

// app holds the wired dependencies shared by serve and sweep.
type app struct {
	store    storage.Store
	workflow *workflow.Service
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	closers  []io.Closer
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, store)
	logger.Info("Storage initialized", "backend", cfg.StoreBackend, "database", cfg.DBPath)

	notifier, err := a.openNotifier(cfg, store)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.workflow = workflow.New(store,
		workflow.WithNotifier(notifier),
		workflow.WithMetrics(a.metrics),
		workflow.WithLogger(logger),
		workflow.WithMaxAttempts(cfg.MaxUpdateAttempts),
		workflow.WithHistoryLimit(cfg.HistoryLimit),
		workflow.WithAgingPolicy(ledger.AgingPolicy{
			Threshold: cfg.AgingThreshold,
			Cooldown:  cfg.ShameCooldown,
		}),
	)
	return a, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// openNotifier always writes the in-app inbox and adds the configured broker.
func (a *app) openNotifier(cfg *config.Config, store storage.Store) (notify.Notifier, error) {
	inbox := notify.NewInbox(store)

	switch cfg.NotifyBackend {
	case "amqp":
		pub, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		a.closers = append(a.closers, pub)
		return notify.Fanout{inbox, pub}, nil
	case "kafka":
		pub := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, pub)
		return notify.Fanout{inbox, pub}, nil
	default:
		return inbox, nil
	}
}

// Close releases brokers first, then the store.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
