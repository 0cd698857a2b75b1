package blob

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and by the doctor preflight's
// dry-run mode. It mirrors the S3 store's absence semantics.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailPut, when set, makes Put/Upload fail for keys containing the
	// substring. Lets tests exercise partial-upload behavior.
	FailPut string
}

func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}}
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.FailPut != "" && strings.Contains(key, m.FailPut) {
		return fmt.Errorf("put %s: injected failure", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = stored
	return nil
}

func (m *Memory) Upload(ctx context.Context, key string, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	return m.Put(ctx, key, data, "")
}

func (m *Memory) ListPrefixes(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]bool{}
	for key := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		idx := strings.Index(rest, "/")
		if idx <= 0 {
			continue
		}
		seen[rest[:idx]] = true
	}

	children := make([]string, 0, len(seen))
	for child := range seen {
		children = append(children, child)
	}
	sort.Strings(children)
	return children, nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Delete removes a key if present. Tests use it to simulate result-store loss.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
}
