package mocks

import "sync"

// PublishedMessage is one recorded Publish call
type PublishedMessage struct {
	Subject string
	Data    []byte
}

// MockMessageQueue records published messages for assertions
type MockMessageQueue struct {
	mu        sync.Mutex
	Published []PublishedMessage

	PublishFunc func(subject string, data []byte) error
}

func (m *MockMessageQueue) Publish(subject string, data []byte) error {
	m.mu.Lock()
	m.Published = append(m.Published, PublishedMessage{Subject: subject, Data: data})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	return nil
}

func (m *MockMessageQueue) Subscribe(subject string, handler func(data []byte) error) error {
	return nil
}

func (m *MockMessageQueue) Close() error { return nil }

// Messages returns a copy of the published messages on a subject.
func (m *MockMessageQueue) Messages(subject string) []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedMessage
	for _, msg := range m.Published {
		if msg.Subject == subject {
			out = append(out, msg)
		}
	}
	return out
}
