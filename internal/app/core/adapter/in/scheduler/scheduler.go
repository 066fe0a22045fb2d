package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

// Scheduler 以 cron 定期執行對帳
type Scheduler struct {
	cron       *cron.Cron
	reconciler *usecase.Reconciler
	timeout    time.Duration
	logger     zerolog.Logger
}

// New 建立 Scheduler 並註冊對帳工作
//
// 參數:
//
//	schedule: cron 表示式 (支援 "@every 10m" 等描述子)
//	timeout: 單次對帳的逾時
//
// 回傳:
//
//	*Scheduler: 尚未啟動
//	error: schedule 無法解析
func New(reconciler *usecase.Reconciler, schedule string, timeout time.Duration, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconciler: reconciler,
		timeout:    timeout,
		logger:     logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce 執行一次對帳，結果只記錄在 log
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	mismatches, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled reconciliation failed")
		return
	}
	if len(mismatches) > 0 {
		s.logger.Warn().Int("mismatches", len(mismatches)).Msg("scheduled reconciliation found mismatches")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止排程並等待執行中的對帳結束
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
