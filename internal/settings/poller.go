package settings

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultPollInterval = 5 * time.Minute

// Poller periodically reloads the settings snapshot so instances converge on
// setting changes made elsewhere without a restart.
type Poller struct {
	db       *gorm.DB
	interval time.Duration
}

// NewPoller constructs a settings poller, nil when db is nil.
func NewPoller(db *gorm.DB) *Poller {
	if db == nil {
		return nil
	}
	return &Poller{db: db, interval: defaultPollInterval}
}

// Start launches the polling loop in a background goroutine.
func (p *Poller) Start(ctx context.Context) {
	if p == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go p.run(ctx)
	log.Infof("settings poller started (interval=%s)", p.interval)
}

func (p *Poller) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
		if errRefresh := Refresh(ctx, p.db); errRefresh != nil {
			log.WithError(errRefresh).Warn("settings poller: refresh failed")
		}
	}
}
