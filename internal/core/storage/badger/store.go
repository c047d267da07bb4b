// Package badger persists summaries in an embedded BadgerDB. It is the
// default backend for a single-host deployment: durable across restarts and
// without an external database.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/skshmgpt/folio/internal/core/engagement"
	"github.com/skshmgpt/folio/internal/core/partition"
	"github.com/skshmgpt/folio/internal/core/storage"
)

// Key prefixes for BadgerDB storage
const (
	summaryKeyPrefix = "summary/"
	sessionKeyPrefix = "session/"
	eventKeyPrefix   = "event/"

	// keySep separates post id from the rest of composite keys.
	keySep = "\x00"

	maxConflictRetries = 8
)

// Options configures Open.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Tests only.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// RetainRawEvents additionally appends each accepted event under event/<post>.
	RetainRawEvents bool
}

// Store implements storage.Backend on BadgerDB.
//
// Writers for one post are serialized by an in-process stripe lock and by
// Badger's optimistic transactions, which abort with ErrConflict if another
// writer committed the same summary key first. Conflicting commits are retried.
type Store struct {
	db        *badger.DB
	locks     [partition.Count]sync.Mutex
	retainRaw bool
}

var _ storage.Backend = (*Store)(nil)

// rawEvent is the on-disk shape of a retained event.
type rawEvent struct {
	ID               string    `json:"id"`
	PostID           string    `json:"post_id"`
	SessionID        string    `json:"session_id"`
	ObservedAt       time.Time `json:"observed_at"`
	ReceivedAt       time.Time `json:"received_at"`
	AttentionSeconds *int64    `json:"attention_seconds,omitempty"`
	MaxScrollPercent *int64    `json:"max_scroll_percent,omitempty"`
	Referrer         string    `json:"referrer"`
}

// Open opens (or creates) the database described by opts.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("badger: path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithLogger(slogLogger{})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	slog.Info("[Badger] Store opened",
		"path", opts.Path,
		"in_memory", opts.InMemory,
		"sync_writes", opts.SyncWrites,
		"retain_raw_events", opts.RetainRawEvents)

	return &Store{db: db, retainRaw: opts.RetainRawEvents}, nil
}

func summaryKey(postID string) []byte {
	return []byte(summaryKeyPrefix + postID)
}

func sessionKey(postID, sessionID string) []byte {
	return []byte(sessionKeyPrefix + postID + keySep + sessionID)
}

func eventKey(evt *engagement.Event) []byte {
	return []byte(fmt.Sprintf("%s%s%s%020d/%s", eventKeyPrefix, evt.PostID, keySep, evt.ReceivedAt.UnixNano(), evt.ID))
}

// RecordEvent folds evt into its post's summary in one Badger transaction.
func (s *Store) RecordEvent(ctx context.Context, evt *engagement.Event) error {
	if err := storage.Prepare(evt); err != nil {
		return err
	}

	lock := &s.locks[partition.For(evt.PostID)]
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			return s.fold(txn, evt)
		})
		if errors.Is(err, badger.ErrConflict) {
			slog.Debug("[Badger] Transaction conflict, retrying",
				"post_id", evt.PostID,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: record event: %w", storage.ErrUnavailable, err)
		}
		return nil
	}

	return fmt.Errorf("%w: record event: gave up after %d conflicting transactions", storage.ErrUnavailable, maxConflictRetries)
}

// fold is the read-modify-write body of RecordEvent.
func (s *Store) fold(txn *badger.Txn, evt *engagement.Event) error {
	summary, err := readSummary(txn, evt.PostID)
	if errors.Is(err, storage.ErrNotFound) {
		summary = engagement.NewSummary(evt.PostID)
	} else if err != nil {
		return err
	}

	sKey := sessionKey(evt.PostID, evt.SessionID)
	_, err = txn.Get(sKey)
	newSession := errors.Is(err, badger.ErrKeyNotFound)
	if err != nil && !newSession {
		return fmt.Errorf("get session marker: %w", err)
	}
	if newSession {
		if err := txn.Set(sKey, []byte(evt.ReceivedAt.UTC().Format(time.RFC3339Nano))); err != nil {
			return fmt.Errorf("set session marker: %w", err)
		}
	}

	summary.Apply(engagement.ContributionOf(evt, newSession))

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := txn.Set(summaryKey(evt.PostID), data); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}

	if s.retainRaw {
		raw, err := json.Marshal(rawEvent{
			ID:               evt.ID,
			PostID:           evt.PostID,
			SessionID:        evt.SessionID,
			ObservedAt:       evt.ObservedAt,
			ReceivedAt:       evt.ReceivedAt,
			AttentionSeconds: evt.AttentionSeconds,
			MaxScrollPercent: evt.MaxScrollPercent,
			Referrer:         evt.Referrer,
		})
		if err != nil {
			return fmt.Errorf("marshal raw event: %w", err)
		}
		if err := txn.Set(eventKey(evt), raw); err != nil {
			return fmt.Errorf("append raw event: %w", err)
		}
	}

	return nil
}

func readSummary(txn *badger.Txn, postID string) (*engagement.Summary, error) {
	item, err := txn.Get(summaryKey(postID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	summary := engagement.NewSummary(postID)
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, summary)
	}); err != nil {
		return nil, fmt.Errorf("decode summary %q: %w", postID, err)
	}
	return summary, nil
}

// GetSummary retrieves one post's summary.
func (s *Store) GetSummary(ctx context.Context, postID string) (*engagement.Summary, error) {
	var summary *engagement.Summary
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		summary, err = readSummary(txn, postID)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get summary: %w", storage.ErrUnavailable, err)
	}
	return summary, nil
}

// GetAllSummaries scans the summary/ prefix.
func (s *Store) GetAllSummaries(ctx context.Context) (map[string]*engagement.Summary, error) {
	summaries := make(map[string]*engagement.Summary)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(summaryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			postID := strings.TrimPrefix(string(item.Key()), summaryKeyPrefix)
			summary := engagement.NewSummary(postID)
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, summary)
			}); err != nil {
				return fmt.Errorf("decode summary %q: %w", postID, err)
			}
			summaries[postID] = summary
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list summaries: %w", storage.ErrUnavailable, err)
	}
	return summaries, nil
}

// Ping fails once the database is closed.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("%w: badger database is closed", storage.ErrUnavailable)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}
	slog.Info("[Badger] Store closed gracefully")
	return nil
}

// slogLogger routes Badger's internal logging through slog.
type slogLogger struct{}

func (slogLogger) Errorf(format string, args ...interface{}) {
	slog.Error("[Badger] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (slogLogger) Warningf(format string, args ...interface{}) {
	slog.Warn("[Badger] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (slogLogger) Infof(format string, args ...interface{}) {
	slog.Debug("[Badger] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (slogLogger) Debugf(format string, args ...interface{}) {
	slog.Debug("[Badger] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}
