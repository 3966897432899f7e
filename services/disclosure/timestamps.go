package disclosure

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"fulldisclosure-backend/lib/timezone"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Timestamps maps a source id to the instant it was last refreshed.
type Timestamps map[string]time.Time

// TimestampStore persists the whole Timestamps table at once, there is no
// partial update.
type TimestampStore interface {
	Load(ctx context.Context) (Timestamps, error)
	Save(ctx context.Context, times Timestamps) error
}

func GetTimestamp(ctx context.Context, store TimestampStore, id string) (time.Time, bool, error) {
	times, err := store.Load(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := times[id]
	return t, ok, nil
}

// SetTimestamp rewrites the table with id set to t, keeping every other entry.
func SetTimestamp(ctx context.Context, store TimestampStore, id string, t time.Time) error {
	times, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if times == nil {
		times = Timestamps{}
	}
	times[id] = t
	return store.Save(ctx, times)
}

func formatTimestamp(t time.Time) string {
	return t.In(timezone.Location).Format(time.RFC3339Nano)
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(timezone.Location), nil
}

// parseTimestampTable reads `source_id: instant` lines. The key ends at the
// first colon so the colons of the instant are kept intact. Lines without a
// separator, with an empty key or with an unparseable instant are skipped.
func parseTimestampTable(contents []byte) Timestamps {
	times := Timestamps{}
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		t, err := parseTimestamp(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		times[key] = t
	}
	return times
}

func formatTimestampTable(times Timestamps) []byte {
	keys := make([]string, 0, len(times))
	for k := range times {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buff bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buff, "%s: %s\n", k, formatTimestamp(times[k]))
	}
	return buff.Bytes()
}

// FileTimestampStore keeps the table in a single text file.
type FileTimestampStore struct {
	path string
}

func NewFileTimestampStore(path string) FileTimestampStore {
	return FileTimestampStore{path: path}
}

// Load treats a missing file as an empty table.
func (s FileTimestampStore) Load(ctx context.Context) (Timestamps, error) {
	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Timestamps{}, nil
	}
	if err != nil {
		return nil, err
	}
	return parseTimestampTable(contents), nil
}

func (s FileTimestampStore) Save(ctx context.Context, times Timestamps) error {
	err := os.MkdirAll(filepath.Dir(s.path), 0755)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, formatTimestampTable(times))
}

type MemoryTimestampStore struct {
	mu    sync.Mutex
	times Timestamps
}

func NewMemoryTimestampStore() *MemoryTimestampStore {
	return &MemoryTimestampStore{times: Timestamps{}}
}

func (s *MemoryTimestampStore) Load(ctx context.Context) (Timestamps, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Timestamps, len(s.times))
	for k, v := range s.times {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryTimestampStore) Save(ctx context.Context, times Timestamps) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times = make(Timestamps, len(times))
	for k, v := range times {
		s.times[k] = v
	}
	return nil
}
