package state

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var ErrUnknownBucket = errors.New("unknown state bucket")

// Memory is an in-process Store used by tests and ephemeral chains.
// Iteration order matches the durable store byte-for-byte.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemory creates an empty in-memory store with the standard buckets.
func NewMemory() *Memory {
	m := &Memory{buckets: map[string]map[string][]byte{}}
	for _, b := range Buckets() {
		m.buckets[string(b)] = map[string][]byte{}
	}
	return m
}

func (m *Memory) bucket(name []byte) (map[string][]byte, error) {
	b, ok := m.buckets[string(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBucket, "%s", name)
	}
	return b, nil
}

func (m *Memory) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}

	v, ok := b[string(key)]
	if !ok {
		return nil, nil
	}

	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *Memory) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	b[string(key)] = cp
	return nil
}

func (m *Memory) Delete(bucket, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}

	delete(b, string(key))
	return nil
}

func (m *Memory) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	b, err := m.bucket(bucket)
	if err != nil {
		m.mu.RUnlock()
		return err
	}

	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2][]byte, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2][]byte{[]byte(k), b[k]})
	}
	m.mu.RUnlock()

	for _, p := range pairs {
		if err := fn(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}
