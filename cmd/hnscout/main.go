package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"hn-scout/config"
	"hn-scout/hn"
	"hn-scout/readinglist"
	"hn-scout/scheduler"
	"hn-scout/scrape"
	"hn-scout/stories"
	"hn-scout/web"
)

var version = "0.1.0"

var (
	configPath string
	dbOverride string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hnscout",
		Short: "Quality-ranked Hacker News front end",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "reading list database path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(topCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(saveCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbOverride != "" {
		cfg.DBPath = dbOverride
	}
	return cfg, nil
}

// dbPath resolves the reading list location, defaulting to the XDG data
// directory.
func dbPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	path, err := xdg.DataFile("hn-scout/readinglist.db")
	if err != nil {
		return "", fmt.Errorf("resolving data dir: %w", err)
	}
	return path, nil
}

func openList(cfg config.Config) (*readinglist.Store, error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, err
	}
	return readinglist.New(path)
}

func newService(cfg config.Config) *stories.Service {
	client := hn.NewClientWithBaseURL(&http.Client{}, cfg.HNBaseURL)
	svcCfg := stories.DefaultConfig()
	svcCfg.PageSize = cfg.PageSize
	svcCfg.ListTimeout = cfg.ListTimeout()
	svcCfg.ItemTimeout = cfg.ItemTimeout()
	svcCfg.CacheTTL = cfg.CacheTTL()
	svcCfg.CommentLimit = cfg.CommentLimit
	return stories.New(client, svcCfg)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)

			svc := newService(cfg)

			list, err := openList(cfg)
			if err != nil {
				return err
			}
			defer list.Close()

			extractor := scrape.NewExtractor(cfg.ScrapeDeadline())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if interval := cfg.WarmInterval(); interval > 0 {
				sched := scheduler.New()
				warm := func() {
					if _, err := svc.ListPage(ctx, 0, 0); err != nil {
						slog.Warn("cache warming failed", "error", err)
					}
				}
				if err := sched.Schedule(interval, warm); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
			}

			srv := web.New(svc, list, extractor, cfg.ListenAddr)
			if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}

func topCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the quality-ranked front page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)

			if page < 1 {
				return fmt.Errorf("page must be positive, got %d", page)
			}

			svc := newService(cfg)
			result, err := svc.ListPage(cmd.Context(), page-1, 0)
			if err != nil {
				return err
			}

			for i, st := range result.Stories {
				printStory(i+1, st)
			}
			fmt.Println(metaStyle.Render(fmt.Sprintf("page %d of %d (%d stories)",
				page, result.NbPages, result.NbHits)))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "result page (1-based)")
	return cmd
}

func printStory(rank int, st stories.Story) {
	fmt.Printf("%2d. %s %s\n", rank, titleStyle.Render(st.Title), renderBadge(st.Recency))

	meta := fmt.Sprintf("%d points by %s | %d comments | %s", st.Points, st.Author, st.NumComments, st.TimeAgo)
	line := "    " + scoreStyle.Render(strconv.FormatFloat(st.Quality.Total, 'f', 1, 64)) +
		" " + metaStyle.Render(meta)
	if st.Domain != "" {
		line += " " + domainStyle.Render("("+st.Domain+")")
	}
	fmt.Println(line)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the reading list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openList(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("reading list is empty")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s %s\n", metaStyle.Render(e.StoryID), titleStyle.Render(e.Title))
				detail := fmt.Sprintf("    %d points | %d comments | saved %s",
					e.Points, e.NumComments, time.Unix(e.SavedAt, 0).Format("2006-01-02"))
				fmt.Println(metaStyle.Render(detail))
			}
			return nil
		},
	}
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [story-id]",
		Short: "Save a story to the reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)

			svc := newService(cfg)
			st, err := svc.GetStory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			store, err := openList(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entry := readinglist.Entry{
				StoryID:     st.ID,
				Title:       st.Title,
				URL:         st.URL,
				Author:      st.Author,
				Points:      st.Points,
				NumComments: st.NumComments,
			}
			if err := store.Save(&entry); err != nil {
				return err
			}

			fmt.Printf("saved: %s\n", titleStyle.Render(st.Title))
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [story-id]",
		Short: "Remove a story from the reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openList(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hnscout %s\n", version)
		},
	}
}
