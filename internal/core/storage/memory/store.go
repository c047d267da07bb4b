// Package memory holds a process-local SummaryStore. It is NOT durable:
// every summary is lost on restart. Use it for demos and tests only.
package memory

import (
	"context"
	"sync"

	"github.com/skshmgpt/folio/internal/core/engagement"
	"github.com/skshmgpt/folio/internal/core/partition"
	"github.com/skshmgpt/folio/internal/core/storage"
)

type shard struct {
	mu        sync.Mutex
	summaries map[string]*engagement.Summary
	// sessions grows without bound; acceptable for a low-traffic site.
	sessions map[string]map[string]struct{}
}

// Store keeps summaries in partition.Count shards. A post always lives in the
// same shard, so the shard mutex is the post's single-writer lock.
type Store struct {
	shards [partition.Count]*shard
}

var _ storage.Backend = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{
			summaries: make(map[string]*engagement.Summary),
			sessions:  make(map[string]map[string]struct{}),
		}
	}
	return s
}

func (s *Store) shardFor(postID string) *shard {
	return s.shards[partition.For(postID)]
}

// RecordEvent folds evt into its post's summary under the shard lock.
func (s *Store) RecordEvent(ctx context.Context, evt *engagement.Event) error {
	if err := storage.Prepare(evt); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sh := s.shardFor(evt.PostID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	summary, ok := sh.summaries[evt.PostID]
	if !ok {
		summary = engagement.NewSummary(evt.PostID)
		sh.summaries[evt.PostID] = summary
	}

	seen, ok := sh.sessions[evt.PostID]
	if !ok {
		seen = make(map[string]struct{})
		sh.sessions[evt.PostID] = seen
	}
	_, known := seen[evt.SessionID]
	if !known {
		seen[evt.SessionID] = struct{}{}
	}

	summary.Apply(engagement.ContributionOf(evt, !known))
	return nil
}

// GetSummary returns a copy of the post's summary or storage.ErrNotFound.
func (s *Store) GetSummary(ctx context.Context, postID string) (*engagement.Summary, error) {
	sh := s.shardFor(postID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	summary, ok := sh.summaries[postID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return summary.Clone(), nil
}

// GetAllSummaries copies every summary. Shards are locked one at a time.
func (s *Store) GetAllSummaries(ctx context.Context) (map[string]*engagement.Summary, error) {
	out := make(map[string]*engagement.Summary)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for postID, summary := range sh.summaries {
			out[postID] = summary.Clone()
		}
		sh.mu.Unlock()
	}
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }
