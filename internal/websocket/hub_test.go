package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Subscriber that captures sent messages
type mockClient struct {
	id       string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
	lagging  bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	if m.lagging {
		return ErrSubscriberLagging
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
		hub.Register(clients[i])
	}

	hub.Broadcast(EntryUpdated(map[string]interface{}{"id": "e-1"}))

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		assert.Len(t, c.GetMessages(), 1, "client %d should receive message", i)
	}
}

func TestHub_Broadcast_SkipsUnregistered(t *testing.T) {
	hub := NewHub()

	kept := newMockClient("kept")
	gone := newMockClient("gone")
	hub.Register(kept)
	hub.Register(gone)
	hub.Unregister(gone)

	hub.Broadcast(EntryCreated(map[string]interface{}{"id": "e-1"}))
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, kept.GetMessages(), 1)
	assert.Len(t, gone.GetMessages(), 0)
}

func TestHub_Broadcast_DropsLaggingSubscriber(t *testing.T) {
	hub := NewHub()

	healthy := newMockClient("healthy")
	behind := newMockClient("behind")
	behind.lagging = true
	hub.Register(healthy)
	hub.Register(behind)

	hub.Broadcast(EntryCreated(map[string]interface{}{"id": "e-1"}))

	require.Eventually(t, behind.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())
	require.Eventually(t, func() bool { return len(healthy.GetMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, healthy.isClosed())
}

func TestSubscriber_SendWhenQueueFull(t *testing.T) {
	s := &Subscriber{id: "tab", queue: make(chan []byte, 1)}

	require.NoError(t, s.Send([]byte(`{"type":"entry.created"}`)))
	assert.ErrorIs(t, s.Send([]byte(`{"type":"entry.updated"}`)), ErrSubscriberLagging)
	assert.Len(t, s.queue, 1)
}

func TestSubscriber_SendAfterClose(t *testing.T) {
	s := &Subscriber{id: "tab", queue: make(chan []byte, 1), closed: true}

	assert.ErrorIs(t, s.Send([]byte(`{}`)), ErrClientClosed)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, clientCount, hub.ClientCount())

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(EntryCreated(map[string]interface{}{"index": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1"))
	})
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(DocumentReset(nil))
	})
}
