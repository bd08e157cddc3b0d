package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/justchokingaround/marquee/internal/catalog"
	"github.com/justchokingaround/marquee/internal/clipboard"
	"github.com/justchokingaround/marquee/internal/mylist"
	"github.com/justchokingaround/marquee/internal/server"
	"github.com/justchokingaround/marquee/internal/subtitles"
	"github.com/justchokingaround/marquee/pkg/types"
)

const commandTimeout = 60 * time.Second

// withApp wires the pipeline, runs fn and tears everything down
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close resources", "error", err)
		}
	}()

	return fn(ctx, a)
}

func parseKind(raw string, titleOnly bool) (types.MediaType, error) {
	kind, ok := types.ParseMediaType(raw)
	if !ok || (titleOnly && !kind.IsTitleKind()) {
		if titleOnly {
			return "", fmt.Errorf("invalid type %q (want movie or tv)", raw)
		}
		return "", fmt.Errorf("invalid type %q (want all, movie or tv)", raw)
	}
	return kind, nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

var homeCmd = &cobra.Command{
	Use:   "home [all|movie|tv]",
	Short: "Show the home feed for a tab",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := "all"
		if len(args) == 1 {
			tab = args[0]
		}
		lazy, _ := cmd.Flags().GetBool("lazy")
		return runHome(cmd, tab, lazy)
	},
}

func runHome(cmd *cobra.Command, tab string, lazy bool) error {
	kind, err := parseKind(tab, false)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		home, err := a.catalog.FetchContent(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to load home feed: %w", err)
		}

		if lazy {
			resolved, err := a.catalog.FetchLazyCategories(ctx, kind)
			if err != nil {
				return fmt.Errorf("failed to load more categories: %w", err)
			}
			home.Categories = catalog.SpliceLazy(home.Categories, resolved)
		}

		if jsonOut {
			return printJSON(os.Stdout, home)
		}
		renderHome(os.Stdout, home, a.cfg.TMDB.ImageURL)
		return nil
	})
}

var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show details, cast and related titles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rawKind, _ := cmd.Flags().GetString("type")
		kind, err := parseKind(rawKind, true)
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			bundle, err := a.catalog.FetchDetails(ctx, id, kind)
			if err != nil {
				return fmt.Errorf("failed to load details: %w", err)
			}
			if jsonOut {
				return printJSON(os.Stdout, bundle)
			}

			renderDetails(os.Stdout, bundle)
			saved, err := mylist.Contains(ctx, a.store, id)
			if err == nil && saved {
				fmt.Println(successStyle.Render("\n✓ In My List"))
			}
			return shareLink(ctx, cmd, a, detailLink(bundle, a.cfg.TMDB.ImageURL))
		})
	},
}

// shareLink honours the --copy and --open flags of the details command
func shareLink(ctx context.Context, cmd *cobra.Command, a *app, link string) error {
	copyLink, _ := cmd.Flags().GetBool("copy")
	openLink, _ := cmd.Flags().GetBool("open")
	if !copyLink && !openLink {
		return nil
	}
	if link == "" {
		return errors.New("no trailer or poster to share for this title")
	}

	if copyLink {
		if err := clipboard.New(a.cfg.Advanced.ClipboardCommand, logger).Write(ctx, link); err != nil {
			return fmt.Errorf("failed to copy link: %w", err)
		}
		fmt.Fprintln(os.Stderr, successStyle.Render("✓ Copied "+link))
	}
	if openLink {
		if err := browser.OpenURL(link); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

var seasonCmd = &cobra.Command{
	Use:   "season <series-id> <season>",
	Short: "List the episodes of a season",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		season, err := strconv.Atoi(args[1])
		if err != nil || season < 0 {
			return fmt.Errorf("invalid season %q", args[1])
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			details, err := a.catalog.FetchSeasonDetails(ctx, id, season)
			if err != nil {
				return fmt.Errorf("failed to load season: %w", err)
			}
			if jsonOut {
				return printJSON(os.Stdout, details)
			}
			renderSeason(os.Stdout, details)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies and TV shows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		rawKind, _ := cmd.Flags().GetString("type")
		kind, err := parseKind(rawKind, false)
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			logger.Info("searching", "query", query, "type", kind)
			items, err := a.catalog.Search(ctx, kind, query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if jsonOut {
				return printJSON(os.Stdout, items)
			}

			fmt.Printf("Found %d results:\n\n", len(items))
			for i, item := range items {
				renderItem(os.Stdout, i+1, item)
			}
			return nil
		})
	},
}

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <id>",
	Short: "Download the best matching subtitle for a title",
	Long: `Resolves the title's IMDB id, searches the subtitle provider, ranks the
candidates and prints the chosen subtitle as SRT. Use --list to see the ranked
candidates and --index to pick another one. Without --index the release chosen
last time for the same title (and episode) is looked up again; --forget drops
those remembered choices.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		rawKind, _ := flags.GetString("type")
		kind, err := parseKind(rawKind, true)
		if err != nil {
			return err
		}
		season, _ := flags.GetInt("season")
		episode, _ := flags.GetInt("episode")
		lang, _ := flags.GetString("lang")
		sortName, _ := flags.GetString("sort")
		index, _ := flags.GetInt("index")
		out, _ := flags.GetString("out")
		list, _ := flags.GetBool("list")
		forget, _ := flags.GetBool("forget")

		params := subtitles.Params{
			ID:       id,
			Kind:     kind,
			Season:   season,
			Episode:  episode,
			Language: lang,
		}
		if sortName != "" {
			params.Sort = subtitles.ParseSortStrategy(sortName)
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			if forget {
				if err := a.subtitles.Forget(ctx, params); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("✓ Forgot subtitle choices for %d", id)))
				if !list && !flags.Changed("index") {
					return nil
				}
			}
			if list {
				candidates, err := a.subtitles.Candidates(ctx, params)
				if err != nil {
					return errors.New(subtitles.Message(err))
				}
				if jsonOut {
					return printJSON(os.Stdout, candidates)
				}
				renderCandidates(os.Stdout, candidates)
				return nil
			}

			var pick *int
			if flags.Changed("index") {
				pick = &index
			}

			res := a.subtitles.Resolve(ctx, params, pick)
			if jsonOut {
				if err := printJSON(os.Stdout, res); err != nil {
					return err
				}
			} else {
				renderSubtitleSummary(res)
			}
			if !res.Success {
				return errors.New("no subtitle retrieved")
			}

			if jsonOut {
				return nil
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(res.SRTContent), 0644); err != nil {
					return fmt.Errorf("failed to write subtitle: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Saved to %s\n", out)
				return nil
			}
			fmt.Print(res.SRTContent)
			return nil
		})
	},
}

var mylistCmd = &cobra.Command{
	Use:   "mylist",
	Short: "Manage saved titles",
}

var mylistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			ids, err := a.store.Get(ctx)
			if err != nil {
				return err
			}
			items := catalog.ResolveSaved(ctx, a.provider, ids, logger)
			if jsonOut {
				return printJSON(os.Stdout, items)
			}
			if len(items) == 0 {
				fmt.Println(dimStyle.Render("My List is empty"))
				return nil
			}
			fmt.Println(headerStyle.Render(catalog.MyListTitle))
			for i, item := range items {
				renderItem(os.Stdout, i+1, item)
			}
			return nil
		})
	},
}

func mylistMutation(use, short string, op func(ctx context.Context, store mylist.Store, id int) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				msg, err := op(ctx, a.store, id)
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render(msg))
				return nil
			})
		},
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Address
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Deps{
			Catalog:   a.catalog,
			Subtitles: a.subtitles,
			MyList:    a.store,
			Logger:    logger,
		})
		fmt.Fprintf(os.Stderr, "Listening on http://%s\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	homeCmd.Flags().Bool("lazy", false, "also load the lazily fetched categories")

	detailsCmd.Flags().StringP("type", "t", "movie", "title type (movie or tv)")
	detailsCmd.Flags().Bool("copy", false, "copy the trailer (or poster) link to the clipboard")
	detailsCmd.Flags().Bool("open", false, "open the trailer (or poster) link in the browser")

	searchCmd.Flags().StringP("type", "t", "all", "restrict results (all, movie or tv)")

	subtitlesCmd.Flags().StringP("type", "t", "movie", "title type (movie or tv)")
	subtitlesCmd.Flags().IntP("season", "s", 0, "season number (tv)")
	subtitlesCmd.Flags().IntP("episode", "e", 0, "episode number (tv)")
	subtitlesCmd.Flags().StringP("lang", "l", "", "subtitle language code (default from config)")
	subtitlesCmd.Flags().String("sort", "", "ranking: smart, popular or recent (default from config)")
	subtitlesCmd.Flags().IntP("index", "i", 0, "pick the candidate at this position in the ranking")
	subtitlesCmd.Flags().StringP("out", "o", "", "write the subtitle to a file instead of stdout")
	subtitlesCmd.Flags().Bool("list", false, "list ranked candidates instead of downloading")
	subtitlesCmd.Flags().Bool("forget", false, "forget the remembered choice for this title, then exit unless --index or --list is given")

	serveCmd.Flags().String("addr", "", "listen address (default from config)")

	mylistCmd.AddCommand(mylistListCmd)
	mylistCmd.AddCommand(mylistMutation("add", "Save a title", func(ctx context.Context, store mylist.Store, id int) (string, error) {
		ids, err := mylist.Add(ctx, store, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved %d (%d titles in My List)", id, len(ids)), nil
	}))
	mylistCmd.AddCommand(mylistMutation("remove", "Remove a saved title", func(ctx context.Context, store mylist.Store, id int) (string, error) {
		ids, err := mylist.Remove(ctx, store, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Removed %d (%d titles in My List)", id, len(ids)), nil
	}))
	mylistCmd.AddCommand(mylistMutation("toggle", "Save or unsave a title", func(ctx context.Context, store mylist.Store, id int) (string, error) {
		saved, err := mylist.Toggle(ctx, store, id)
		if err != nil {
			return "", err
		}
		if saved {
			return fmt.Sprintf("Saved %d", id), nil
		}
		return fmt.Sprintf("Removed %d", id), nil
	}))
}
