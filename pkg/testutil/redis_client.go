package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rafflefi/backend/pkg/xredis"
)

// MockRedisClient is an in-memory xredis.Client. Keys never expire.
type MockRedisClient struct {
	mutex sync.Mutex
	data  map[string][]byte
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{data: make(map[string][]byte)}
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.data[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[key] = b
	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	m.mutex.Lock()
	b, ok := m.data[key]
	m.mutex.Unlock()

	if !ok {
		return xredis.ErrNotFound
	}

	return json.Unmarshal(b, v)
}

func (m *MockRedisClient) Close() error {
	return nil
}
