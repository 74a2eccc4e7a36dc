package feedsync

import (
	"context"
	"net/http"

	"newsblur-sync/blursync/internal/api"
)

const opFeedCounts = "feed-counts"

// RefreshFeedCounts downloads unread counts and applies them to feeds already in
// the store. Feeds the store does not know are skipped, never inserted.
// It returns the number of feeds updated.
func (s *Syncer) RefreshFeedCounts(ctx context.Context, token string) (int, error) {
	var counts api.FeedCountsResponse
	if _, err := s.fetch(ctx, opFeedCounts, http.MethodGet, api.PathFeedCounts, nil, token, &counts); err != nil {
		return 0, err
	}

	updated, skipped := 0, 0
	for _, c := range counts.Counts() {
		changed, err := s.store.UpdateFeedCounts(ctx, c)
		if err != nil {
			return updated, storeError(opFeedCounts, err)
		}
		if changed == 0 {
			skipped++
			continue
		}
		updated++
	}

	s.logger.Info().
		Int("updated", updated).
		Int("skipped", skipped).
		Msg("Feed counts refreshed")

	return updated, nil
}

// Report summarizes a SyncAll run.
type Report struct {
	Feeds         int
	Folders       int
	CountsUpdated int
}

// SyncAll refreshes the topology and then the unread counts, stopping at the first error.
func (s *Syncer) SyncAll(ctx context.Context, token string) (*Report, error) {
	topology, err := s.FetchFolderFeedMapping(ctx, token)
	if err != nil {
		return nil, err
	}

	updated, err := s.RefreshFeedCounts(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Report{
		Feeds:         len(topology.Feeds),
		Folders:       topology.Folders.Len(),
		CountsUpdated: updated,
	}, nil
}
