package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"market_history/internal/feature/history/domain/entity"
)

var ErrDB = errors.New("database error")

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func price(v float64) *float64 { return &v }

func entryAt(t time.Time, low float64) entity.Entry {
	return entity.Entry{LowPrice: price(low), ObservedAt: t}
}

func candle(t time.Time, open, close float64) entity.Candle {
	return entity.Candle{Time: t, Open: open, Close: close, Low: min(open, close), High: max(open, close)}
}

func hour(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Hour)
}

// mockEntrySource はEntrySourceインターフェースのモック実装です。
type mockEntrySource struct {
	QueryFunc func(ctx context.Context, item entity.ItemRef, since *time.Time) ([]entity.Entry, error)
}

func (m *mockEntrySource) Query(ctx context.Context, item entity.ItemRef, since *time.Time) ([]entity.Entry, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, item, since)
	}
	return nil, errors.New("QueryFunc is not implemented")
}

// memorySnapshotStore はSnapshotStoreのインメモリ実装です。書き込み回数を記録します。
type memorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[entity.ItemRef]*entity.HistorySnapshot
	short     map[entity.ItemRef]entity.ShortHistoric
	puts      int
	shortPuts int

	getErr   error
	putErr   error
	shortErr error
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{
		snapshots: map[entity.ItemRef]*entity.HistorySnapshot{},
		short:     map[entity.ItemRef]entity.ShortHistoric{},
	}
}

func (m *memorySnapshotStore) Get(ctx context.Context, item entity.ItemRef) (*entity.HistorySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.snapshots[item]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.TimeData = append([]entity.Candle(nil), s.TimeData...)
	return &cp, nil
}

func (m *memorySnapshotStore) Put(ctx context.Context, item entity.ItemRef, timeData []entity.Candle, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.snapshots[item] = &entity.HistorySnapshot{
		TimeData:  append([]entity.Candle(nil), timeData...),
		UpdatedAt: updatedAt,
	}
	return nil
}

func (m *memorySnapshotStore) UpdateShortHistoric(ctx context.Context, item entity.ItemRef, summary entity.ShortHistoric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shortErr != nil {
		return m.shortErr
	}
	m.shortPuts++
	m.short[item] = summary
	return nil
}
