package clipboard

import (
	"errors"
	"sync"
)

// Memory is an in-process System. It keeps the most recent data set for
// each format and is used for headless servers and tests. The *Err fields
// inject failures into the matching call.
type Memory struct {
	mu      sync.Mutex
	formats map[string]uint32
	names   map[uint32]string
	data    map[string][]byte
	open    bool
	writes  int

	OpenErr  error
	EmptyErr error
	SetErr   error
	CloseErr error
}

var _ System = (*Memory)(nil)

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{
		formats: make(map[string]uint32),
		names:   make(map[uint32]string),
		data:    make(map[string][]byte),
	}
}

func (m *Memory) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	if m.open {
		return errors.New("clipboard is already open")
	}
	m.open = true
	return nil
}

func (m *Memory) Empty() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return errors.New("clipboard is not open")
	}
	if m.EmptyErr != nil {
		return m.EmptyErr
	}
	m.data = make(map[string][]byte)
	return nil
}

func (m *Memory) RegisterFormat(name string) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.formats[name]; ok {
		return id, nil
	}
	// Registered formats live above the predefined range, as on Windows.
	id := uint32(0xC000 + len(m.formats))
	m.formats[name] = id
	m.names[id] = name
	return id, nil
}

func (m *Memory) SetData(format uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return errors.New("clipboard is not open")
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	name, ok := m.names[format]
	if !ok {
		return errors.New("unknown clipboard format")
	}
	m.data[name] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return m.CloseErr
}

// IsOpen reports whether the clipboard is currently open.
func (m *Memory) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Data returns the bytes stored for the named format.
func (m *Memory) Data(format string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[format]
	return b, ok
}

// Writes returns the number of successful SetData calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
