package task

import (
	"context"

	"go.uber.org/zap"

	"goldsmith_store_v1_202610/internal/model"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务
type TaskManager struct {
	rateTask *RateSyncTask
	logger   *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Fetcher  RateFetcher
	Recorder RateRecorder
	Logger   *zap.Logger
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	RateEnabled bool
	RateCron    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		RateEnabled: true,
		RateCron:    DefaultRateCron,
	}
}

// NewTaskManager 创建任务管理器，缺少金价源时不启用同步
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tm := &TaskManager{logger: logger}
	if cfg.RateEnabled && deps.Fetcher != nil && deps.Recorder != nil {
		tm.rateTask = NewRateSyncTask(deps.Fetcher, deps.Recorder, cfg.RateCron, logger)
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	if tm.rateTask != nil {
		if err := tm.rateTask.Start(); err != nil {
			return err
		}
	}
	tm.logger.Info("background tasks started", zap.Any("status", tm.Status()))
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.rateTask != nil {
		tm.rateTask.Stop()
	}
}

// ==================== 手动触发接口 ====================

// SyncNow 手动触发金价同步，供 /api/rates/sync 使用
func (tm *TaskManager) SyncNow(ctx context.Context) (*model.RateSnapshot, error) {
	if tm.rateTask == nil {
		return nil, ErrTaskDisabled
	}
	return tm.rateTask.SyncNow(ctx)
}

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"rate": tm.rateTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
