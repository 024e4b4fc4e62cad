package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/model"
)

// DefaultRateCron 默认每 15 分钟拉取一次 (秒级表达式)
const DefaultRateCron = "0 0/15 * * * *"

// RateFetcher 外部金价源
type RateFetcher interface {
	FetchCurrent(ctx context.Context) (*model.RateSnapshot, error)
}

// RateRecorder 金价快照写入
type RateRecorder interface {
	Record(ctx context.Context, snap *model.RateSnapshot) (*model.RateSnapshot, error)
}

// RateSyncTask 定时拉取金价并追加快照
type RateSyncTask struct {
	fetcher  RateFetcher
	recorder RateRecorder
	cron     *cron.Cron
	spec     string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewRateSyncTask(fetcher RateFetcher, recorder RateRecorder, spec string, logger *zap.Logger) *RateSyncTask {
	if spec == "" {
		spec = DefaultRateCron
	}
	return &RateSyncTask{
		fetcher:  fetcher,
		recorder: recorder,
		cron:     cron.New(cron.WithSeconds()),
		spec:     spec,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// Start 注册定时任务并立即执行一次
func (t *RateSyncTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.runJob); err != nil {
		return fmt.Errorf("register rate sync %q: %w", t.spec, err)
	}

	// 首次执行
	go t.runJob()

	t.cron.Start()
	t.logger.Info("rate sync task started", zap.String("spec", t.spec))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *RateSyncTask) Stop() {
	<-t.cron.Stop().Done()
	t.logger.Info("rate sync task stopped")
}

// SyncNow 拉取一次并入库
func (t *RateSyncTask) SyncNow(ctx context.Context) (*model.RateSnapshot, error) {
	snap, err := t.fetcher.FetchCurrent(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := t.recorder.Record(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("record fetched rate: %w", err)
	}
	return saved, nil
}

func (t *RateSyncTask) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	snap, err := t.SyncNow(ctx)
	if err != nil {
		// 失败只记录，旧快照继续生效
		t.logger.Warn("rate sync failed", zap.Error(err))
		return
	}
	middleware.MarkSyncExecuted(middleware.SyncTypeRate)
	t.logger.Info("rate synced",
		zap.String("rate_22k", snap.Rate22K.String()),
		zap.String("rate_24k", snap.Rate24K.String()),
		zap.String("source", snap.Source),
	)
}
