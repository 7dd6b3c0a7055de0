package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// wireNote is the persisted and exported shape of a note.
type wireNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  Language  `json:"language"`
	CreatedAt timestamp `json:"createdAt"`
	UpdatedAt timestamp `json:"updatedAt"`
}

// rawNote is the decoding intermediary. Pointer fields tell "missing" from "empty".
// The id is kept raw because imported ids are discarded whatever their type.
type rawNote struct {
	ID        json.RawMessage `json:"id"`
	Title     *string         `json:"title"`
	Content   *string         `json:"content"`
	Language  *string         `json:"language"`
	CreatedAt *timestamp      `json:"createdAt"`
	UpdatedAt *timestamp      `json:"updatedAt"`
}

// timestamp marshals as RFC 3339 with nanoseconds in UTC and accepts
// RFC 3339 strings, epoch-millisecond strings and epoch-millisecond numbers.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseTimestamp(s)
		if err != nil {
			return err
		}
		*t = timestamp(parsed)
		return nil
	}
	parsed, err := parseEpochMillis(string(data))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	*t = timestamp(parsed)
	return nil
}

// Timestamps must survive an RFC 3339 round trip, which has four-digit years.
var (
	minTimestamp = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxTimestamp = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return checkRange(ts.UTC())
	}
	if ts, err := parseEpochMillis(s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseEpochMillis(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < minTimestamp.UnixMilli() || ms > maxTimestamp.UnixMilli() {
			return time.Time{}, fmt.Errorf("timestamp %d out of range", ms)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(f) || f < float64(minTimestamp.UnixMilli()) || f > float64(maxTimestamp.UnixMilli()) {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", s)
	}
	return checkRange(time.UnixMicro(int64(f * 1000)).UTC())
}

func checkRange(t time.Time) (time.Time, error) {
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", t.Format(time.RFC3339Nano))
	}
	return t, nil
}

// encodeNotes serializes the collection. An empty collection encodes as [].
func encodeNotes(notes []Note, indent bool) ([]byte, error) {
	wire := make([]wireNote, 0, len(notes))
	for _, n := range notes {
		wire = append(wire, wireNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Language:  n.Language,
			CreatedAt: timestamp(n.CreatedAt),
			UpdatedAt: timestamp(n.UpdatedAt),
		})
	}
	if indent {
		return json.MarshalIndent(wire, "", "  ")
	}
	return json.Marshal(wire)
}

// splitArray checks that payload is a JSON array of objects and returns its elements.
func splitArray(payload []byte) ([]json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, -1, errors.New("payload is not a JSON array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, -1, err
	}
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, i, errors.New("record is not a JSON object")
		}
	}
	return items, -1, nil
}

// decodeImport parses an import payload strictly. Every record must carry
// valid timestamps with updatedAt >= createdAt. Ids are assigned by ids.
func decodeImport(payload []byte, ids IDGenerator) ([]Note, error) {
	items, idx, err := splitArray(payload)
	if err != nil {
		return nil, &ImportError{Index: idx, Err: err}
	}
	out := make([]Note, 0, len(items))
	for i, item := range items {
		var raw rawNote
		if err := json.Unmarshal(item, &raw); err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
		if raw.CreatedAt == nil {
			return nil, &ImportError{Index: i, Err: errors.New("missing createdAt")}
		}
		if raw.UpdatedAt == nil {
			return nil, &ImportError{Index: i, Err: errors.New("missing updatedAt")}
		}
		n := raw.note()
		if n.UpdatedAt.Before(n.CreatedAt) {
			return nil, &ImportError{Index: i, Err: errors.New("updatedAt precedes createdAt")}
		}
		n.ID = ids.NewID()
		out = append(out, n)
	}
	return out, nil
}

// decodeStored parses the persisted collection leniently. Missing fields get
// defaults, missing or duplicate ids are replaced, and timestamps are repaired
// so that updatedAt >= createdAt.
func decodeStored(payload []byte, ids IDGenerator, now time.Time) ([]Note, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	items, idx, err := splitArray(payload)
	if err != nil {
		if idx >= 0 {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	out := make([]Note, 0, len(items))
	for i, item := range items {
		var raw rawNote
		if err := json.Unmarshal(item, &raw); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		n := raw.note()
		switch {
		case raw.CreatedAt == nil && raw.UpdatedAt == nil:
			n.CreatedAt, n.UpdatedAt = now, now
		case raw.CreatedAt == nil:
			n.CreatedAt = n.UpdatedAt
		case raw.UpdatedAt == nil:
			n.UpdatedAt = n.CreatedAt
		}
		n.touch(n.UpdatedAt)

		var id string
		if err := json.Unmarshal(raw.ID, &id); err != nil || id == "" || seen[id] {
			id = ids.NewID()
		}
		seen[id] = true
		n.ID = id
		out = append(out, n)
	}
	return out, nil
}

func (r rawNote) note() Note {
	n := Note{Title: DefaultTitle, Language: Plaintext}
	if r.Title != nil {
		n.Title = *r.Title
	}
	if r.Content != nil {
		n.Content = *r.Content
	}
	if r.Language != nil && *r.Language != "" {
		n.Language = Language(*r.Language)
	}
	if r.CreatedAt != nil {
		n.CreatedAt = time.Time(*r.CreatedAt)
	}
	if r.UpdatedAt != nil {
		n.UpdatedAt = time.Time(*r.UpdatedAt)
	}
	return n
}
