package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rafflefi/backend/pkg/pubsub"
)

// MockPublisher records every published pack. PublishFunc, if set, decides
// the returned error.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex sync.Mutex
	packs map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mutex.Lock()
	if m.packs == nil {
		m.packs = make(map[string][]*pubsub.Pack)
	}
	m.packs[topic] = append(m.packs[topic], pack)
	m.mutex.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

// Ops returns the operations of the events published to topic, in order.
func (m *MockPublisher) Ops(topic string) []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ops := []string{}
	for _, pack := range m.packs[topic] {
		var req struct {
			Op string `json:"o"`
		}
		if err := json.Unmarshal(pack.Msg, &req); err != nil {
			panic(err)
		}
		ops = append(ops, req.Op)
	}

	return ops
}
