package watchlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

type memStorage struct {
	mu       sync.Mutex
	saved    []domain.WatchlistEntry
	saves    int
	loadErr  error
	saveErr  error
	loadGate chan struct{}
}

func (m *memStorage) LoadWatchlist() ([]domain.WatchlistEntry, error) {
	if m.loadGate != nil {
		<-m.loadGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.WatchlistEntry(nil), m.saved...), nil
}

func (m *memStorage) SaveWatchlist(entries []domain.WatchlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]domain.WatchlistEntry(nil), entries...)
	return nil
}

func (m *memStorage) snapshot() ([]domain.WatchlistEntry, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WatchlistEntry(nil), m.saved...), m.saves
}

// tick returns a clock that advances one minute per call
func tick() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func movie(id int) domain.ContentItem {
	return domain.ContentItem{Kind: domain.KindMovie, ID: id, Title: "movie"}
}

func show(id int) domain.ContentItem {
	return domain.ContentItem{Kind: domain.KindTV, ID: id, Title: "show"}
}

func loadedStore(t *testing.T, storage *memStorage) *Store {
	t.Helper()
	s := New(storage, nil, WithClock(tick()))
	s.Load()
	require.False(t, s.Loading())
	return s
}

func TestAddIsIdempotent(t *testing.T) {
	storage := &memStorage{}
	s := loadedStore(t, storage)
	ctx := context.Background()

	added, err := s.Add(ctx, movie(1))
	require.NoError(t, err)
	assert.True(t, added)
	first := s.List()[0].AddedAt

	added, err = s.Add(ctx, movie(1))
	require.NoError(t, err)
	assert.False(t, added)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].AddedAt, "timestamp is not refreshed")

	_, saves := storage.snapshot()
	assert.Equal(t, 1, saves, "no-op add does not write")
}

func TestSameIDDifferentKind(t *testing.T) {
	s := loadedStore(t, &memStorage{})
	ctx := context.Background()

	_, err := s.Add(ctx, movie(1))
	require.NoError(t, err)
	_, err = s.Add(ctx, show(1))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(domain.KindMovie, 1))
	assert.True(t, s.Contains(domain.KindTV, 1))
}

func TestRemoveIsIdempotent(t *testing.T) {
	storage := &memStorage{}
	s := loadedStore(t, storage)
	ctx := context.Background()

	removed, err := s.Remove(ctx, domain.KindMovie, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.Add(ctx, movie(42))
	require.NoError(t, err)
	removed, err = s.Remove(ctx, domain.KindMovie, 42)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, s.Contains(domain.KindMovie, 42))

	saved, saves := storage.snapshot()
	assert.Empty(t, saved)
	assert.Equal(t, 2, saves)
}

func TestListMostRecentFirst(t *testing.T) {
	s := loadedStore(t, &memStorage{})
	ctx := context.Background()

	for _, item := range []domain.ContentItem{movie(1), show(2), movie(3)} {
		_, err := s.Add(ctx, item)
		require.NoError(t, err)
	}
	_, err := s.Remove(ctx, domain.KindTV, 2)
	require.NoError(t, err)
	_, err = s.Add(ctx, show(2))
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{list[0].ID, list[1].ID, list[2].ID})
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].AddedAt.After(list[i-1].AddedAt))
	}
}

func TestNoDuplicatesUnderConcurrentAdds(t *testing.T) {
	storage := &memStorage{}
	s := loadedStore(t, storage)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add(ctx, movie(i%5))
			if i%7 == 0 {
				_, _ = s.Remove(ctx, domain.KindMovie, i%5)
			}
		}()
	}
	wg.Wait()

	seen := map[domain.Key]bool{}
	for _, e := range s.List() {
		assert.False(t, seen[e.Key()], "duplicate %s", e.Key())
		seen[e.Key()] = true
	}

	saved, _ := storage.snapshot()
	assert.Len(t, saved, s.Len(), "last write matches memory")
}

func TestPersistsAcrossStores(t *testing.T) {
	storage := &memStorage{}
	first := loadedStore(t, storage)
	ctx := context.Background()
	_, err := first.Add(ctx, movie(7))
	require.NoError(t, err)

	second := loadedStore(t, storage)
	assert.True(t, second.Contains(domain.KindMovie, 7))
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	storage := &memStorage{saveErr: &domain.StorageError{Op: "save", Err: errors.New("disk full")}}
	s := loadedStore(t, storage)

	added, err := s.Add(context.Background(), movie(1))
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Contains(domain.KindMovie, 1))

	saved, saves := storage.snapshot()
	assert.Empty(t, saved)
	assert.Equal(t, 1, saves)
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	storage := &memStorage{loadErr: errors.New("corrupt")}
	s := loadedStore(t, storage)
	assert.Zero(t, s.Len())

	_, err := s.Add(context.Background(), movie(1))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestLoadDropsDuplicates(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	storage := &memStorage{saved: []domain.WatchlistEntry{
		{ContentItem: movie(1), AddedAt: at},
		{ContentItem: movie(1), AddedAt: at.Add(time.Hour)},
		{ContentItem: domain.ContentItem{Kind: "person", ID: 3}, AddedAt: at},
	}}
	s := loadedStore(t, storage)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, at, list[0].AddedAt)
}

func TestAddWaitsForLoad(t *testing.T) {
	storage := &memStorage{
		saved:    []domain.WatchlistEntry{{ContentItem: movie(1), AddedAt: time.Now()}},
		loadGate: make(chan struct{}),
	}
	s := New(storage, nil)
	go s.Load()

	assert.True(t, s.Loading())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Add(ctx, movie(2))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(context.Background(), movie(2))
		done <- err
	}()
	close(storage.loadGate)
	require.NoError(t, <-done)

	assert.False(t, s.Loading())
	assert.Equal(t, 2, s.Len(), "loaded entries are not overwritten by the early add")
}

func TestSubscribe(t *testing.T) {
	s := loadedStore(t, &memStorage{})
	ctx := context.Background()

	var got [][]domain.WatchlistEntry
	unsubscribe := s.Subscribe(func(entries []domain.WatchlistEntry) {
		got = append(got, entries)
	})

	_, _ = s.Add(ctx, movie(1))
	_, _ = s.Add(ctx, movie(1))
	_, _ = s.Add(ctx, movie(2))
	unsubscribe()
	_, _ = s.Remove(ctx, domain.KindMovie, 1)

	require.Len(t, got, 2)
	assert.Len(t, got[1], 2)
	assert.Equal(t, 2, got[1][0].ID)
}

func TestToggleAndClear(t *testing.T) {
	storage := &memStorage{}
	s := loadedStore(t, storage)
	ctx := context.Background()

	on, err := s.Toggle(ctx, show(9))
	require.NoError(t, err)
	assert.True(t, on)
	on, err = s.Toggle(ctx, show(9))
	require.NoError(t, err)
	assert.False(t, on)

	_, _ = s.Add(ctx, movie(1))
	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
	saved, _ := storage.snapshot()
	assert.Empty(t, saved)
}

func TestAddRejectsUnknownKind(t *testing.T) {
	s := loadedStore(t, &memStorage{})
	_, err := s.Add(context.Background(), domain.ContentItem{Kind: "person", ID: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}
