// Command a2a-cards manages the card catalog and prints player history.
//
//	a2a-cards import [-adjectives file] [-nouns file] [-pack file.json]
//	a2a-cards counts
//	a2a-cards history [-limit n]
//
// The store path comes from A2A_STORE_PATH, overridable with -store.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"a2a/internal/config"
	"a2a/internal/domain"
	"a2a/internal/storage/sqlite"
)

const usage = "usage: a2a-cards <import|counts|history> [flags]"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cfg, err := config.Load(config.EnvironMap(os.Environ()))
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("a2a-cards "+args[0], flag.ContinueOnError)
	storePath := fs.String("store", cfg.StorePath, "path to the SQLite card store")

	switch args[0] {
	case "import":
		adjectives := fs.String("adjectives", "", "file with one adjective per line")
		nouns := fs.String("nouns", "", "file with one noun per line")
		pack := fs.String("pack", "", "JSON card pack with adjectives and nouns")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		cards, err := readCards(*adjectives, *nouns, *pack)
		if err != nil {
			return err
		}
		return withStore(ctx, *storePath, func(store *sqlite.Store) error {
			return importCards(ctx, store, cards, out)
		})
	case "counts":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return withStore(ctx, *storePath, func(store *sqlite.Store) error {
			return printCounts(ctx, store, out)
		})
	case "history":
		limit := fs.Int("limit", 10, "number of players to list, 0 for all")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return withStore(ctx, *storePath, func(store *sqlite.Store) error {
			return printHistory(ctx, store, *limit, out)
		})
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func withStore(ctx context.Context, path string, fn func(*sqlite.Store) error) (err error) {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open card store: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	return fn(store)
}

// readCards merges the line files and the JSON pack into one catalog.
func readCards(adjectivesPath, nounsPath, packPath string) (domain.Catalog, error) {
	var catalog domain.Catalog
	if adjectivesPath == "" && nounsPath == "" && packPath == "" {
		return catalog, errors.New("import needs at least one of -adjectives, -nouns or -pack")
	}
	if packPath != "" {
		pack, err := config.LoadCardPack(packPath)
		if err != nil {
			return catalog, err
		}
		catalog = pack
	}
	if adjectivesPath != "" {
		lines, err := readLines(adjectivesPath)
		if err != nil {
			return catalog, err
		}
		catalog.Adjectives = append(catalog.Adjectives, lines...)
	}
	if nounsPath != "" {
		lines, err := readLines(nounsPath)
		if err != nil {
			return catalog, err
		}
		catalog.Nouns = append(catalog.Nouns, lines...)
	}
	return catalog.Distinct(), nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.DistinctCards(lines), nil
}

func importCards(ctx context.Context, store *sqlite.Store, cards domain.Catalog, out io.Writer) error {
	addedAdjectives, err := store.AddAdjectives(ctx, cards.Adjectives)
	if err != nil {
		return err
	}
	addedNouns, err := store.AddNouns(ctx, cards.Nouns)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %d adjectives and %d nouns.\n", addedAdjectives, addedNouns)
	return printCounts(ctx, store, out)
}

func printCounts(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	adjectives, nouns, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Catalog: %d adjectives, %d nouns.\n", adjectives, nouns)
	if adjectives < domain.MinAdjectives || nouns < domain.MinNouns {
		fmt.Fprintf(out, "Warning: a game needs at least %d adjectives and %d nouns.\n", domain.MinAdjectives, domain.MinNouns)
	}
	return nil
}

func printHistory(ctx context.Context, store *sqlite.Store, limit int, out io.Writer) error {
	players, err := store.PlayerHistory(ctx, limit)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Fprintln(out, "No rounds recorded.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NICK\tWON\tPLAYED\tJUDGED")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", p.Nick, p.RoundsWon, p.RoundsPlayed, p.RoundsJudged)
	}
	return w.Flush()
}
