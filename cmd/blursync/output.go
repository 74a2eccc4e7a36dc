package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/store"
)

func printProfile(p *api.UserProfile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s (%d)\n", p.Username, p.UserID)
	if p.Location != "" {
		fmt.Fprintf(w, "Location\t%s\n", p.Location)
	}
	if p.Website != "" {
		fmt.Fprintf(w, "Website\t%s\n", p.Website)
	}
	fmt.Fprintf(w, "Followers\t%d\n", p.FollowerCount)
	fmt.Fprintf(w, "Following\t%d\n", p.FollowingCount)
	fmt.Fprintf(w, "Shared stories\t%d\n", p.SharedStoriesCount)
	w.Flush()
}

func printStories(ctx context.Context, st *store.Store, feedID int64) error {
	stories, err := st.StoriesForFeed(ctx, feedID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range stories {
		date := "-"
		if s.Date.Valid {
			date = s.Date.Time.Format("2006-01-02")
		}
		read := " "
		if s.Read {
			read = "r"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d comments\n", read, date, s.Title, s.CommentCount)
	}
	return w.Flush()
}

func printFolders(ctx context.Context, st *store.Store) error {
	folders, err := st.ListFolders(ctx)
	if err != nil {
		return err
	}
	feeds, err := st.ListFeeds(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d feeds in %d folders\n", len(feeds), len(folders))

	for _, folder := range folders {
		fmt.Println(folder.Name)
		ids, err := st.FolderFeedIDs(ctx, folder.Name)
		if err != nil {
			return err
		}
		for _, id := range ids {
			feed, err := st.GetFeed(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("  %d (not subscribed)\n", id)
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf("  %s  [%d/%d/%d]\n", feed.Title, feed.PositiveCount, feed.NeutralCount, feed.NegativeCount)
		}
	}
	return nil
}
