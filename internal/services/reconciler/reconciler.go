package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mavericklabs/sparks-files/env"
	"github.com/mavericklabs/sparks-files/internal/services/objectstore"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

const (
	maxConcurrentStats = 8
	defaultGrace       = 24 * time.Hour
)

// Orphan is a storage object with no corresponding metadata record,
// left behind when a transfer succeeded but the commit did not.
type Orphan struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

type Report struct {
	Orphans []Orphan
	// Missing lists record names whose storage object is gone.
	Missing []string
	Removed []string
}

// Reconciler compares the bucket listing against the metadata records.
// The interactive upload and delete paths never depend on it.
type Reconciler struct {
	repo          repository.Repository
	store         objectstore.Store
	log           *zap.SugaredLogger
	grace         time.Duration
	removeOrphans bool
}

func New(repo repository.Repository, store objectstore.Store, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		repo:  repo,
		store: store,
		log:   log,
		grace: defaultGrace,
	}
}

// RemoveOrphans enables deletion of orphans older than the grace
// period; by default a sweep only reports.
func (r *Reconciler) RemoveOrphans(grace time.Duration) {
	r.removeOrphans = true
	r.grace = grace
}

func (r *Reconciler) Sweep(ctx context.Context) (*Report, error) {
	names, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	records, err := r.repo.FindAllFiles(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]struct{}, len(records))
	for _, rec := range records {
		recorded[rec.Name] = struct{}{}
	}
	stored := make(map[string]struct{}, len(names))
	for _, name := range names {
		stored[name] = struct{}{}
	}

	var report Report
	var locker sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStats)

	for _, name := range names {
		if _, ok := recorded[name]; ok {
			continue
		}

		name := name
		g.Go(func() error {
			info, err := r.store.Stat(gctx, name)
			if errors.Is(err, objectstore.ErrNotFound) {
				// deleted between List and Stat, nothing to reconcile
				return nil
			}
			if err != nil {
				return err
			}

			orphan := Orphan{Name: name, Size: info.Size, UpdatedAt: info.UpdatedAt}

			if r.removeOrphans && time.Since(info.UpdatedAt) >= r.grace {
				if err = r.store.Delete(gctx, name); err != nil {
					return err
				}
				locker.Lock()
				report.Removed = append(report.Removed, name)
				locker.Unlock()
				return nil
			}

			locker.Lock()
			report.Orphans = append(report.Orphans, orphan)
			locker.Unlock()
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	for _, rec := range records {
		if _, ok := stored[rec.Name]; !ok {
			report.Missing = append(report.Missing, rec.Name)
		}
	}

	return &report, nil
}

// Schedule runs periodic sweeps; the schedule comes from SWEEP_SCHEDULE
// and defaults to hourly.
func Schedule(r *Reconciler, log *zap.SugaredLogger) (*cron.Cron, error) {
	schedule := env.GetOptional(env.SweepSchedule, "@hourly")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		report, err := r.Sweep(context.Background())
		if err != nil {
			log.With("err", err).Error("reconciliation sweep failed")
			return
		}
		log.With(
			"orphans", len(report.Orphans),
			"missing", len(report.Missing),
			"removed", len(report.Removed),
		).Info("reconciliation sweep finished")
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}
