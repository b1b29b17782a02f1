package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/genres"
	"github.com/flixreview/go-flixreview-client/internal/config"
	"github.com/flixreview/go-flixreview-client/movies"
	"github.com/flixreview/go-flixreview-client/querycache"
	"github.com/flixreview/go-flixreview-client/recommendations"
	"github.com/flixreview/go-flixreview-client/search"
	"github.com/flixreview/go-flixreview-client/session"
	"github.com/flixreview/go-flixreview-client/tokens"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running client: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store, err := newTokenStore(c)
	if err != nil {
		return err
	}

	client, err := api.New(c.GetAPIBaseURL(), store,
		api.WithTimeout(c.GetHTTPTimeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	cache := querycache.New()
	movieService := movies.NewService(client, cache)
	genreService := genres.NewService(client, cache, genres.WithListTTL(c.GetGenreCacheTTL()))
	recommendationService := recommendations.NewService(client, cache)

	manager, err := session.New(session.Deps{
		API:    session.NewRestAuthAPI(client),
		Tokens: store,
	}, session.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.GetHTTPTimeout())
	defer cancel()

	manager.Restore(ctx)
	if user := manager.CurrentUser(); user != nil {
		logger.Info().Str("username", user.Username).Msg("Session restored")
	} else {
		logger.Info().Msg("No stored session")
		if email, password := os.Getenv("FLIXREVIEW_EMAIL"), os.Getenv("FLIXREVIEW_PASSWORD"); email != "" {
			if err := manager.Login(ctx, email, password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			logger.Info().Str("email", email).Msg("Logged in")
		}
	}

	if os.Getenv("FLIXREVIEW_SEARCH") != "" {
		return searchLoop(context.Background(), logger, movieService, c.GetSearchDebounce())
	}
	return browse(ctx, logger, movieService, genreService, recommendationService)
}

func browse(ctx context.Context, logger zerolog.Logger, movieService *movies.Service, genreService *genres.Service, recommendationService *recommendations.Service) error {
	allGenres, err := genreService.List(ctx)
	if err != nil {
		return fmt.Errorf("list genres: %w", err)
	}
	logger.Info().Int("genres", len(allGenres)).Msg("Fetched genre list")

	topRated, err := recommendationService.TopRated(ctx, 5)
	if err != nil {
		logger.Warn().Err(err).Msg("Top rated unavailable")
	} else {
		fmt.Println("Top rated:")
		for _, movie := range topRated {
			fmt.Printf("  %-38s  %.1f\n", movie.Title, movie.AvgRating)
		}
	}

	list, err := movieService.List(ctx, movies.Filters{Page: 1, Ordering: "-avg_rating"})
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}
	for _, movie := range list.Results {
		fmt.Printf("%-40s  %.1f (%d reviews)\n", movie.Title, movie.AvgRating, movie.ReviewCount)
	}
	return nil
}

// searchLoop reads queries from stdin and runs a movie search once the input
// has been quiet for the configured debounce delay. An empty line clears the
// pending query.
func searchLoop(ctx context.Context, logger zerolog.Logger, movieService *movies.Service, delay time.Duration) error {
	debouncer := search.New(delay)
	defer debouncer.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				debouncer.Clear()
				continue
			}
			debouncer.Input(line)
		}
	}()

	fmt.Println("Type to search (empty line clears, Ctrl-D exits):")
	for {
		select {
		case query := <-debouncer.Settled():
			runSearch(ctx, logger, movieService, query)
		case <-done:
			// Give the last keystroke its quiescence window.
			select {
			case query := <-debouncer.Settled():
				runSearch(ctx, logger, movieService, query)
			case <-time.After(delay + 100*time.Millisecond):
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func runSearch(ctx context.Context, logger zerolog.Logger, movieService *movies.Service, query string) {
	if query == "" {
		return
	}
	list, err := movieService.List(ctx, movies.Filters{Search: query})
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Search failed")
		return
	}
	fmt.Printf("%q: %d results\n", query, list.Count)
	for _, movie := range list.Results {
		fmt.Printf("  %-38s  %.1f\n", movie.Title, movie.AvgRating)
	}
}

func newTokenStore(c config.Config) (tokens.Store, error) {
	if addr := c.GetRedisAddr(); addr != "" {
		return tokens.NewRedisStore(tokens.RedisConfig{Addr: addr})
	}
	return tokens.NewFileStore(c.GetDataFolder())
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
