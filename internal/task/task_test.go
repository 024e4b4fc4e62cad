package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goldsmith_store_v1_202610/internal/model"
)

type stubFetcher struct {
	snap *model.RateSnapshot
	err  error
}

func (f *stubFetcher) FetchCurrent(ctx context.Context) (*model.RateSnapshot, error) {
	return f.snap, f.err
}

type stubRecorder struct {
	mu      sync.Mutex
	records []*model.RateSnapshot
	err     error
}

func (r *stubRecorder) Record(ctx context.Context, snap *model.RateSnapshot) (*model.RateSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.records = append(r.records, snap)
	return snap, nil
}

func (r *stubRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func quote() *model.RateSnapshot {
	return &model.RateSnapshot{
		Rate24K: decimal.NewFromInt(6500),
		Rate22K: decimal.NewFromInt(6000),
		Source:  "feed",
	}
}

func TestRateSyncTask_SyncNow(t *testing.T) {
	recorder := &stubRecorder{}
	task := NewRateSyncTask(&stubFetcher{snap: quote()}, recorder, "", zap.NewNop())

	snap, err := task.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feed", snap.Source)
	assert.Equal(t, 1, recorder.count())
}

func TestRateSyncTask_FetchFailureRecordsNothing(t *testing.T) {
	recorder := &stubRecorder{}
	task := NewRateSyncTask(&stubFetcher{err: errors.New("timeout")}, recorder, "", zap.NewNop())

	_, err := task.SyncNow(context.Background())
	assert.Error(t, err)
	assert.Zero(t, recorder.count())
}

func TestRateSyncTask_RecordFailure(t *testing.T) {
	recordErr := errors.New("db down")
	task := NewRateSyncTask(&stubFetcher{snap: quote()}, &stubRecorder{err: recordErr}, "", zap.NewNop())

	_, err := task.SyncNow(context.Background())
	assert.ErrorIs(t, err, recordErr)
}

func TestRateSyncTask_StartRunsImmediately(t *testing.T) {
	recorder := &stubRecorder{}
	task := NewRateSyncTask(&stubFetcher{snap: quote()}, recorder, "0 0 0 1 1 *", zap.NewNop())

	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return recorder.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRateSyncTask_InvalidSpec(t *testing.T) {
	task := NewRateSyncTask(&stubFetcher{}, &stubRecorder{}, "every now and then", zap.NewNop())
	assert.Error(t, task.Start())
}

func TestTaskManager(t *testing.T) {
	disabled := NewTaskManager(&TaskManagerDeps{}, nil)
	_, err := disabled.SyncNow(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
	assert.False(t, disabled.Status()["rate"])

	recorder := &stubRecorder{}
	tm := NewTaskManager(&TaskManagerDeps{
		Fetcher:  &stubFetcher{snap: quote()},
		Recorder: recorder,
	}, &TaskManagerConfig{RateEnabled: true})
	assert.True(t, tm.Status()["rate"])

	_, err = tm.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.count())
}
