// Package results persists quiz attempt records as one JSON array stored
// under a single key, mirroring the layout a browser would keep in local
// storage.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/store"
)

// Key is the kv key holding the history list.
const Key = "quizResults"

// ErrCorrupt is returned by mutations when the stored list cannot be parsed.
// The value is left untouched; `history clear` resets it.
var ErrCorrupt = errors.New("stored results are not a JSON list")

// UnknownGrade is shown for records stored without a grade.
const UnknownGrade = "Unknown"

// Record is one finished attempt. Records are never edited once appended.
type Record struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Grade  string `json:"grade"`
	Score  int    `json:"score"`
}

// Entry is a record together with its current position in the list.
type Entry struct {
	Index int
	Record
}

// Row is a display-ready history row.
type Row struct {
	Index  int
	Name   string
	Gender string
	Grade  string
	Score  string
}

// Store is the ordered result list. Every mutation is a read-modify-write of
// the whole list inside one transaction; two processes writing at once get
// last-writer-wins at the transaction boundary.
type Store struct {
	kv store.KVRepo
}

// New returns a Store backed by kv.
func New(kv store.KVRepo) *Store {
	return &Store{kv: kv}
}

// Append adds rec to the end of the list.
func (s *Store) Append(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	var count int
	err = s.kv.Update(ctx, Key, func(cur string) (string, error) {
		list, err := current(cur)
		if err != nil {
			return "", err
		}
		next, err := sjson.SetRaw(list, "-1", string(raw))
		if err != nil {
			return "", fmt.Errorf("append record: %w", err)
		}
		count = int(gjson.Get(next, "#").Int())
		return next, nil
	})
	if err != nil {
		return err
	}
	config.WithContext(ctx).WithFields(logrus.Fields{
		"name":  rec.Name,
		"score": rec.Score,
		"count": count,
	}).Info("result appended")
	return nil
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	cur, _, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	list := normalize(cur)

	var entries []Entry
	var decodeErr error
	gjson.Parse(list).ForEach(func(_, value gjson.Result) bool {
		var rec Record
		if err := json.Unmarshal([]byte(value.Raw), &rec); err != nil {
			decodeErr = fmt.Errorf("decode record %d: %w", len(entries), err)
			return false
		}
		entries = append(entries, Entry{Index: len(entries), Record: rec})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return entries, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	cur, _, err := s.kv.Get(ctx, Key)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return int(gjson.Get(normalize(cur), "#").Int()), nil
}

// DeleteAt removes the record at position i. An out-of-range index is a
// no-op and reports false.
func (s *Store) DeleteAt(ctx context.Context, i int) (bool, error) {
	deleted := false
	err := s.kv.Update(ctx, Key, func(cur string) (string, error) {
		list, err := current(cur)
		if err != nil {
			return "", err
		}
		n := int(gjson.Get(list, "#").Int())
		if i < 0 || i >= n {
			return list, nil
		}
		next, err := sjson.Delete(list, strconv.Itoa(i))
		if err != nil {
			return "", fmt.Errorf("delete record %d: %w", i, err)
		}
		deleted = true
		return next, nil
	})
	if err != nil {
		return false, err
	}

	log := config.WithContext(ctx)
	if deleted {
		log.WithField("index", i).Info("result deleted")
	} else {
		log.WithField("index", i).Debug("delete ignored, index out of range")
	}
	return deleted, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Put(ctx, Key, "[]"); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	config.WithContext(ctx).Info("results cleared")
	return nil
}

// View returns the history rows for display. Records without a grade show
// UnknownGrade.
func (s *Store) View(ctx context.Context) ([]Row, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		grade := e.Grade
		if grade == "" {
			grade = UnknownGrade
		}
		rows = append(rows, Row{
			Index:  e.Index,
			Name:   e.Name,
			Gender: e.Gender,
			Grade:  grade,
			Score:  strconv.Itoa(e.Score),
		})
	}
	return rows, nil
}

// current is the strict form of normalize used before a write, so a corrupt
// value is reported instead of being replaced.
func current(cur string) (string, error) {
	if cur == "" {
		return "[]", nil
	}
	if !gjson.Valid(cur) || !gjson.Parse(cur).IsArray() {
		return "", ErrCorrupt
	}
	return cur, nil
}

// normalize treats a missing or corrupt value as an empty list for reads.
func normalize(cur string) string {
	if cur == "" || !gjson.Valid(cur) || !gjson.Parse(cur).IsArray() {
		return "[]"
	}
	return cur
}
