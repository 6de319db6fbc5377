package idempotency

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value     []byte
	pending   bool
	expiresAt time.Time
}

// MemoryStore хранилище ключей с TTL в памяти процесса.
// Просроченные ключи удаляются лениво при чтении и периодически фоновым sweep.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryStore создает хранилище. sweepInterval <= 0 отключает фоновую очистку.
func NewMemoryStore(ttl, sweepInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &MemoryStore{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	} else {
		close(s.done)
	}

	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !s.now().Before(it.expiresAt) {
		delete(s.items, key)
		return Entry{}, false, nil
	}

	return Entry{Value: it.value, Pending: it.pending}, true, nil
}

// Reserve занимает ключ. false означает, что ключ уже занят живой записью.
func (s *MemoryStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if it, ok := s.items[key]; ok && now.Before(it.expiresAt) {
		return false, nil
	}

	s.items[key] = item{pending: true, expiresAt: now.Add(s.ttl)}
	return true, nil
}

// Save сохраняет итоговый ответ по зарезервированному ключу
func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	it, ok := s.items[key]
	if !ok || !now.Before(it.expiresAt) {
		return ErrNotReserved
	}

	s.items[key] = item{value: value, expiresAt: now.Add(s.ttl)}
	return nil
}

// Release освобождает ключ (запрос завершился ошибкой и может быть повторен)
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Sweep удаляет просроченные ключи и возвращает их количество
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, it := range s.items {
		if !now.Before(it.expiresAt) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

// Len количество ключей, включая еще не вычищенные просроченные
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close останавливает фоновую очистку
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}
