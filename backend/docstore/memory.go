package docstore

import (
	"context"
	"encoding/json"
	"maps"
	"strings"
	"sync"
)

// Memory keeps documents in process. Values round-trip through JSON so they
// read back with the same types as from the SQL backends.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, path string) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	raw, ok := m.docs[path]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	doc, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (m *Memory) Set(ctx context.Context, path string, fields Document) error {
	return m.update(ctx, path, func(doc Document) {
		maps.Copy(doc, fields)
	})
}

func (m *Memory) Union(ctx context.Context, path, field string, values []string, fields Document) error {
	return m.update(ctx, path, func(doc Document) {
		stored := doc.StringSlice(field)
		maps.Copy(doc, fields)
		doc[field] = union(stored, values)
	})
}

func (m *Memory) List(ctx context.Context, prefix string) (map[string]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]Document{}
	for path, raw := range m.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out[path] = doc
	}
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.docs, path)
	m.mu.Unlock()
	return nil
}

func (m *Memory) update(ctx context.Context, path string, apply func(Document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := decode(m.docs[path])
	if err != nil {
		return err
	}
	apply(doc)
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[path] = raw
	return nil
}

func (m *Memory) Close() error { return nil }
