package scheduler

import (
	"context"
	"sync"
	"time"
	"tourvisto/internal/providers"
	"tourvisto/internal/scheduler/interfaces"
	"tourvisto/internal/services"
	"tourvisto/internal/structures"
)

// Scheduler keeps the dashboard stats cache warm by recomputing it every
// dashboard.refreshInterval. A zero interval disables it.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.DashboardServiceInterface
	stop    chan struct{}
	wg      sync.WaitGroup
	opsMu   sync.Mutex
	running bool
}

func (s *Scheduler) refresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.service.RefreshStats(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while refreshing dashboard stats: %s", err)
		return
	}
	s.logger.Debugf(providers.TypeApp, "Dashboard stats refreshed")
}

func (s *Scheduler) Init() {
	interval := s.config.Dashboard.RefreshInterval
	if interval <= 0 || s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.refresh()
		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-s.stop:
				return
			}
		}
	}()
	s.logger.Infof(providers.TypeApp, "Dashboard refresh scheduled every %s", interval)
}

func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.running = false
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.DashboardServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
	}
}
