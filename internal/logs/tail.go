package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

const (
	maxLineBytes        = 1024 * 1024
	defaultPollInterval = 250 * time.Millisecond
)

// Entry is one decoded log record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	RunID   string
	Command string
	Fields  map[string]any
}

// Query selects which records to return. Zero values match everything.
type Query struct {
	RunID    string
	MinLevel string
	Limit    int
}

// ParseEntry decodes one JSON log line. Lines that are not JSON objects are
// reported as not ok.
func ParseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	e := Entry{Fields: make(map[string]any, len(raw))}
	for key, value := range raw {
		s, _ := value.(string)
		switch key {
		case "ts":
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				e.Time = ts
			}
		case "level":
			e.Level = strings.ToLower(s)
		case "msg":
			e.Message = s
		case "run_id":
			e.RunID = s
		case "command":
			e.Command = s
		default:
			e.Fields[key] = value
		}
	}
	return e, true
}

func (q Query) matches(e Entry) bool {
	if q.RunID != "" && e.RunID != q.RunID {
		return false
	}
	return levelRank(e.Level) >= levelRank(q.MinLevel)
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// Tail returns the last q.Limit matching records in path (all of them when
// Limit is zero) along with the file offset reached. A missing file yields no
// records and offset zero.
func Tail(path string, q Query) ([]Entry, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}

	var (
		ring  []Entry
		count int
		idx   int
	)
	if q.Limit > 0 {
		ring = make([]Entry, q.Limit)
	}
	offset, err := scanFrom(file, 0, func(e Entry) {
		if !q.matches(e) {
			return
		}
		if q.Limit <= 0 {
			ring = append(ring, e)
			count++
			return
		}
		ring[idx] = e
		idx = (idx + 1) % q.Limit
		if count < q.Limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	if q.Limit <= 0 || count < q.Limit {
		return ring[:count], offset, nil
	}
	out := make([]Entry, count)
	for i := range count {
		out[i] = ring[(idx+i)%q.Limit]
	}
	return out, offset, nil
}

// Follow polls path for records appended after offset and passes matching
// ones to emit until ctx is done. A file that shrinks (a new day's file was
// recreated) is read again from the start.
func Follow(ctx context.Context, path string, offset int64, q Query, poll time.Duration, emit func(Entry)) error {
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		next, err := readNew(path, offset, func(e Entry) {
			if q.matches(e) {
				emit(e)
			}
		})
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readNew(path string, offset int64, emit func(Entry)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	return scanFrom(file, offset, emit)
}

// scanFrom decodes complete lines starting at offset and returns the offset
// just past the last complete line, so a partially written record is picked
// up on the next read.
func scanFrom(file *os.File, offset int64, emit func(Entry)) (int64, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		if len(line) > maxLineBytes {
			continue
		}
		if e, ok := ParseEntry(strings.TrimSpace(line)); ok {
			emit(e)
		}
	}
}

// FieldKeys returns the extra field names of e in sorted order.
func (e Entry) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
