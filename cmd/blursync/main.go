package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/config"
	"newsblur-sync/blursync/internal/database"
	"newsblur-sync/blursync/internal/feedsync"
	"newsblur-sync/blursync/internal/store"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type credentialsCmd struct {
	Username string `arg:"-u,--username,required" help:"account username"`
	Password string `arg:"-p,--password,env:BLURSYNC_PASSWORD" help:"account password"`
}

type userCmd struct {
	ID int64 `arg:"--id,required" help:"user id"`
}

type storiesCmd struct {
	Feed int64 `arg:"--feed,required" help:"feed id"`
}

type args struct {
	DBPath   string        `arg:"--db" help:"path to the SQLite cache (env: BLURSYNC_DB_PATH)"`
	BaseURL  string        `arg:"--base-url" help:"API base URL (env: BLURSYNC_BASE_URL)"`
	LogLevel string        `arg:"--log-level" help:"debug, info, warn, error (env: BLURSYNC_LOG_LEVEL)"`
	Timeout  time.Duration `arg:"--timeout" help:"per-request timeout (env: BLURSYNC_TIMEOUT)"`

	Login    *credentialsCmd `arg:"subcommand:login" help:"log in and store the session"`
	Signup   *credentialsCmd `arg:"subcommand:signup" help:"create an account and store the session"`
	Logout   *struct{}       `arg:"subcommand:logout" help:"forget the stored session"`
	Profile  *struct{}       `arg:"subcommand:profile" help:"sync your own profile"`
	User     *userCmd        `arg:"subcommand:user" help:"show another user's profile"`
	Stories  *storiesCmd     `arg:"subcommand:stories" help:"sync one page of stories for a feed"`
	Follow   *userCmd        `arg:"subcommand:follow" help:"follow a user"`
	Unfollow *userCmd        `arg:"subcommand:unfollow" help:"unfollow a user"`
	Feeds    *struct{}       `arg:"subcommand:feeds" help:"sync feeds and folders"`
	Counts   *struct{}       `arg:"subcommand:counts" help:"refresh unread counts"`
	Sync     *struct{}       `arg:"subcommand:sync" help:"sync feeds, folders and unread counts"`
	Reset    *struct{}       `arg:"subcommand:reset" help:"drop and recreate the local cache"`
}

func (args) Description() string {
	return "blursync mirrors a NewsBlur account into a local SQLite cache.\n"
}

func main() {
	cfg := config.DefaultConfig()

	a := args{
		DBPath:   cfg.DBPath,
		BaseURL:  cfg.BaseURL,
		LogLevel: cfg.LogLevel.String(),
		Timeout:  cfg.RequestTimeout,
	}
	p := arg.MustParse(&a)
	if p.Subcommand() == nil {
		p.Fail("missing command")
	}

	cfg.DBPath = a.DBPath
	cfg.BaseURL = a.BaseURL
	cfg.RequestTimeout = a.Timeout
	cfg.LogLevel = config.ParseLogLevel(a.LogLevel, cfg.LogLevel)
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, &a); err != nil {
		event := log.Error().Err(err)
		if kind := feedsync.KindOf(err); kind != "" {
			event = event.Str("kind", string(kind))
		}
		event.Msg("Command failed")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, a *args) error {
	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if a.Reset != nil {
		if err := db.Reset(); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
		log.Info().Str("path", cfg.DBPath).Msg("Local cache reset")
		return nil
	}

	st := store.New(db)

	client, err := api.NewClient(api.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	syncer := feedsync.New(client, api.NewDecoder(), st, log.Logger)

	switch {
	case a.Login != nil:
		return runAuthenticate(ctx, syncer, a.Login, feedsync.ModeLogin)
	case a.Signup != nil:
		return runAuthenticate(ctx, syncer, a.Signup, feedsync.ModeSignup)
	case a.Logout != nil:
		if err := st.ClearSession(ctx); err != nil {
			return err
		}
		log.Info().Msg("Session cleared")
		return nil
	}

	session, err := st.LoadSession(ctx)
	if err != nil {
		return err
	}
	if !session.Valid() {
		return errors.New("no stored session, run the login command first")
	}
	token := session.Token

	switch {
	case a.Profile != nil:
		profile, err := syncer.FetchOwnProfile(ctx, token)
		if err != nil {
			return err
		}
		printProfile(profile.UserProfile)

	case a.User != nil:
		profile, err := syncer.FetchUserProfile(ctx, token, a.User.ID)
		if err != nil {
			return err
		}
		printProfile(profile.UserProfile)

	case a.Stories != nil:
		if _, err := syncer.FetchStoriesForFeed(ctx, token, a.Stories.Feed); err != nil {
			return err
		}
		return printStories(ctx, st, a.Stories.Feed)

	case a.Follow != nil:
		if _, err := syncer.Follow(ctx, token, a.Follow.ID); err != nil {
			return err
		}
		fmt.Printf("Following user %d\n", a.Follow.ID)

	case a.Unfollow != nil:
		if _, err := syncer.Unfollow(ctx, token, a.Unfollow.ID); err != nil {
			return err
		}
		fmt.Printf("Unfollowed user %d\n", a.Unfollow.ID)

	case a.Feeds != nil:
		if _, err := syncer.FetchFolderFeedMapping(ctx, token); err != nil {
			return err
		}
		return printFolders(ctx, st)

	case a.Counts != nil:
		updated, err := syncer.RefreshFeedCounts(ctx, token)
		if err != nil {
			return err
		}
		fmt.Printf("Updated unread counts for %d feeds\n", updated)

	case a.Sync != nil:
		started := time.Now()
		report, err := syncer.SyncAll(ctx, token)
		if err != nil {
			return err
		}
		log.Info().
			Int("feeds", report.Feeds).
			Int("folders", report.Folders).
			Int("counts_updated", report.CountsUpdated).
			Dur("duration", time.Since(started)).
			Msg("Sync finished")
	}

	return nil
}

func runAuthenticate(ctx context.Context, syncer *feedsync.Syncer, creds *credentialsCmd, mode feedsync.Mode) error {
	if creds.Password == "" {
		return errors.New("a password is required (--password or BLURSYNC_PASSWORD)")
	}
	result, err := syncer.Authenticate(ctx, creds.Username, creds.Password, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (user %d)\n", result.Session.Username, result.Login.UserID)
	return nil
}
