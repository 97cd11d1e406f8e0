package event

import (
	"sync"

	"go.uber.org/zap"
)

// Manager dispatches events to listeners in registration order, on the
// caller's goroutine. Tasks are sequential so listeners observe transactions
// in nonce order.
type Manager struct {
	mu        sync.RWMutex
	listeners []*Listener
}

type Listener struct {
	eventType Type
	callback  func(msg interface{})
}

func NewManager() *Manager {
	return &Manager{listeners: make([]*Listener, 0)}
}

func (m *Manager) AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, &Listener{eventType: eventType, callback: callback})
}

func (m *Manager) EmitEvent(eventType Type, msg interface{}) {
	m.mu.RLock()
	listeners := make([]*Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	if len(listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			listener.callback(msg)
		}
	}
}
