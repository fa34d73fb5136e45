package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"presence-monitor-backend/config"
	"presence-monitor-backend/internal/directory"
	"presence-monitor-backend/internal/store"
)

// zoneRuntime is the immutable per-zone state a scheduler loop works with.
type zoneRuntime struct {
	id       string
	interval time.Duration
	devices  deviceSets
}

// Service drives one fetch→process→aggregate→store cycle per zone on a
// fixed interval. Zones run as independent goroutines and share no
// per-cycle state; the serving layer only ever reads the snapshot store.
type Service struct {
	cfg    *config.Config
	store  store.Store
	db     *gorm.DB // person directory, read-only
	client *Client
	zones  []zoneRuntime
}

// NewService creates and initializes the tracker service.
func NewService(cfg *config.Config, st store.Store, db *gorm.DB) (*Service, error) {
	client, err := NewClient(&cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %w", err)
	}

	zones := make([]zoneRuntime, 0, len(cfg.Tracker.Zones))
	for _, z := range cfg.Tracker.Zones {
		zones = append(zones, zoneRuntime{
			id:       z.ID,
			interval: z.Interval,
			devices:  newDeviceSets(z.InDevices, z.OutDevices),
		})
	}

	return &Service{
		cfg:    cfg,
		store:  st,
		db:     db,
		client: client,
		zones:  zones,
	}, nil
}

// Run seeds placeholder snapshots and starts one polling loop per zone.
// It blocks until the context is cancelled and all loops have drained.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Tracker.Enabled {
		log.Println("Tracker is disabled. Not starting.")
		return
	}
	log.Printf("Starting tracker service for %d zone(s)...", len(s.zones))

	// Zones with no snapshot yet get the offline placeholder so the
	// serving layer always has something to return. Existing snapshots
	// are left untouched.
	for _, zone := range s.zones {
		if err := s.store.SeedOfflineSnapshot(ctx, zone.id, time.Now().UTC()); err != nil {
			log.Printf("[%s] Error seeding placeholder snapshot: %v", zone.id, err)
		}
	}

	var wg sync.WaitGroup
	for _, zone := range s.zones {
		wg.Add(1)
		go func(zone zoneRuntime) {
			defer wg.Done()
			s.zoneLoop(ctx, zone)
		}(zone)
	}
	wg.Wait()
}

func (s *Service) zoneLoop(ctx context.Context, zone zoneRuntime) {
	s.runCycle(ctx, zone)

	timer := time.NewTimer(zone.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] Tracker loop shutting down.", zone.id)
			return
		case <-timer.C:
			s.runCycle(ctx, zone)
			timer.Reset(zone.interval)
		}
	}
}

// runCycle executes one full refresh for a zone. A failed or timed-out
// cycle writes nothing: the previous snapshot stays authoritative and the
// next interval retries. Stale-but-valid beats erroring the serving layer.
func (s *Service) runCycle(ctx context.Context, zone zoneRuntime) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.Tracker.CycleTimeout)
	defer cancel()

	if err := s.RunCycleOnce(cctx, zone.id); err != nil {
		if errors.Is(err, ErrUpstreamOffline) {
			log.Printf("[%s] Upstream offline, keeping previous snapshot: %v", zone.id, err)
		} else {
			log.Printf("[%s] Cycle failed, keeping previous snapshot: %v", zone.id, err)
		}
	}
}

// RunCycleOnce performs a single fetch→process→aggregate→store pass for
// the named zone.
func (s *Service) RunCycleOnce(ctx context.Context, zoneID string) error {
	zone, ok := s.zone(zoneID)
	if !ok {
		return fmt.Errorf("unknown zone %q", zoneID)
	}

	events, err := s.client.FetchAll(ctx)
	if err != nil {
		return err
	}

	perPerson := processEvents(events, zone.devices)
	summary := aggregate(ctx, perPerson, directory.NewCycle(s.db))

	if err := s.store.ReplaceSnapshot(ctx, zone.id, summary, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	log.Printf("[%s] Cycle finished: %d event(s), %d currently inside.", zone.id, len(events), summary.TotalCurrentInside)
	return nil
}

func (s *Service) zone(id string) (zoneRuntime, bool) {
	for _, z := range s.zones {
		if z.id == id {
			return z, true
		}
	}
	return zoneRuntime{}, false
}
