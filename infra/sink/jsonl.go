package sink

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	coresink "github.com/gridpilot/gridpilot/core/sink"
)

// JSONLStore persists ticks to a JSONL file, one record per line, and
// supports time-bounded queries for the history endpoints.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

// Record appends the tick to the file.
func (s *JSONLStore) Record(rec coresink.TickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

// TickQuery filters stored records. Zero times mean unbounded; an empty
// action matches everything.
type TickQuery struct {
	Start  time.Time
	End    time.Time
	Action string
}

// Query scans the file and returns matching records in append order.
func (s *JSONLStore) Query(q TickQuery) ([]coresink.TickRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var res []coresink.TickRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r coresink.TickRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if !q.Start.IsZero() && r.Snapshot.Timestamp.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && r.Snapshot.Timestamp.After(q.End) {
			continue
		}
		if q.Action != "" && r.Decision.BatteryAction.String() != q.Action {
			continue
		}
		res = append(res, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close is a no-op; the file is opened per operation.
func (s *JSONLStore) Close() error { return nil }
