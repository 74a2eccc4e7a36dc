package feedsync

import (
	"context"
	"net/http"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/models"
	"newsblur-sync/blursync/internal/store"
)

const opFeedsFolders = "feeds-folders"

// FetchFolderFeedMapping downloads the feed and folder topology and upserts
// every feed, every folder and, after its folder, every membership row.
// Membership rows may name feeds missing from the feed map.
func (s *Syncer) FetchFolderFeedMapping(ctx context.Context, token string) (*api.FeedFolderResponse, error) {
	var topology api.FeedFolderResponse
	if _, err := s.fetch(ctx, opFeedsFolders, http.MethodGet, api.PathFeedsFolders, nil, token, &topology); err != nil {
		return nil, err
	}

	syncedAt := s.now()

	feeds := topology.SortedFeeds()
	for _, feed := range feeds {
		if err := s.store.UpsertFeed(ctx, feed.ToModel(syncedAt)); err != nil {
			return nil, storeError(opFeedsFolders, err)
		}
	}

	memberships := 0
	for _, name := range topology.Folders.Names() {
		if err := s.store.UpsertFolder(ctx, models.Folder{Name: name, SyncedAt: syncedAt}); err != nil {
			return nil, storeError(opFeedsFolders, err)
		}
		for _, feedID := range topology.Folders.FeedIDs(name) {
			if err := s.store.UpsertFeedFolder(ctx, models.FeedFolder{FeedID: feedID, FolderName: name}); err != nil {
				return nil, storeError(opFeedsFolders, err)
			}
			memberships++
		}
	}

	s.logger.Info().
		Str("resource", store.ResourceFeeds).
		Int("feeds", len(feeds)).
		Int("folders", topology.Folders.Len()).
		Int("memberships", memberships).
		Msg("Topology synchronized")

	return &topology, nil
}
