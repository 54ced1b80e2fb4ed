package scheduler

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	// DeploymentExpiryJobName identifies the expiry sweep in job states
	DeploymentExpiryJobName = "deployment-expiry"

	defaultExpiryInterval  = time.Minute
	defaultExpiryBatchSize = 100
	// maxExpiryBatches caps how many full batches one run drains
	maxExpiryBatches = 50
)

// DeploymentExpirer expires live deployments whose end date has passed
type DeploymentExpirer interface {
	ExpireDue(ctx context.Context, now time.Time, batch int) (int, error)
}

// NewDeploymentExpiryJob builds the periodic sweep that keeps expired banners
// from staying live. Each run drains full batches until one comes back short.
func NewDeploymentExpiryJob(expirer DeploymentExpirer, cfg config.SchedulerConfig, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.ExpiryInterval
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	batch := cfg.ExpiryBatchSize
	if batch <= 0 {
		batch = defaultExpiryBatchSize
	}

	return Job{
		Name:       DeploymentExpiryJobName,
		Interval:   interval,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			now := time.Now()
			total := 0
			for range maxExpiryBatches {
				n, err := expirer.ExpireDue(ctx, now, batch)
				total += n
				if err != nil {
					return err
				}
				if n < batch {
					break
				}
			}
			if total > 0 {
				logger.Info("Expired deployments", zap.Int("count", total))
			}
			return nil
		},
	}
}
