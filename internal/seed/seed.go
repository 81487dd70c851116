// Package seed loads a catalog described in YAML into the store.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"librarycatalog/internal/storage"
	"librarycatalog/internal/storage/authors"
	"librarycatalog/internal/storage/books"
	"librarycatalog/internal/storage/genres"
	"librarycatalog/internal/types"
)

type Author struct {
	FirstName  string `yaml:"first_name"`
	FamilyName string `yaml:"family_name"`
}

func (a Author) key() string {
	return types.NameKey(a.FamilyName) + "\x00" + types.NameKey(a.FirstName)
}

type Book struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Isbn    string   `yaml:"isbn"`
	Author  Author   `yaml:"author"`
	Genres  []string `yaml:"genres"`
}

type Catalog struct {
	Authors []Author `yaml:"authors"`
	Genres  []string `yaml:"genres"`
	Books   []Book   `yaml:"books"`
}

type Stats struct {
	Authors int
	Genres  int
	Books   int
	// Skipped counts books left out because a book with the same isbn was already stored
	Skipped int
}

// Parse decodes a catalog, rejecting unknown keys.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	return &c, nil
}

type Loader struct {
	DB     storage.DB
	Logger *slog.Logger
}

// Load stores the catalog in one transaction. Authors and genres are reused when they already exist,
// books are skipped when their isbn is already stored, so loading the same file twice is harmless.
func (l *Loader) Load(ctx context.Context, c *Catalog) (Stats, error) {
	var stats Stats

	err := l.DB.InTx(ctx, func(tx storage.DB) error {
		stats = Stats{}

		authorIds, err := l.ensureAuthors(ctx, authors.NewRepository(tx, l.Logger), c, &stats)
		if err != nil {
			return err
		}

		genreIds, err := l.ensureGenres(ctx, genres.NewRepository(tx, l.Logger), c, &stats)
		if err != nil {
			return err
		}

		br := books.NewRepository(tx, l.Logger)

		for _, b := range c.Books {
			if isbn := strings.TrimSpace(b.Isbn); isbn != "" {
				n, err := br.Count(ctx, books.Filter{Isbn: isbn})
				if err != nil {
					return fmt.Errorf("checking existing book %s: %w", isbn, err)
				}

				if n > 0 {
					l.Logger.DebugContext(ctx, "Skip book "+b.Title+": isbn "+isbn+" already stored")
					stats.Skipped++
					continue
				}
			}

			book := &types.Book{
				Title:   strings.TrimSpace(b.Title),
				Summary: strings.TrimSpace(b.Summary),
				Isbn:    strings.TrimSpace(b.Isbn),
				Author:  &types.Author{Id: authorIds[b.Author.key()]},
			}

			for _, name := range b.Genres {
				book.Genres = append(book.Genres, genreIds[types.NameKey(name)])
			}

			if _, err := br.Insert(ctx, book); err != nil {
				return fmt.Errorf("saving book %q: %w", b.Title, err)
			}

			stats.Books++
		}

		return nil
	})

	return stats, err
}

func (l *Loader) ensureAuthors(ctx context.Context, ar authors.Repository, c *Catalog, stats *Stats) (map[string]string, error) {
	all := make([]Author, 0, len(c.Authors)+len(c.Books))
	all = append(all, c.Authors...)
	for _, b := range c.Books {
		all = append(all, b.Author)
	}

	ret := make(map[string]string, len(all))
	for _, a := range all {
		if _, ok := ret[a.key()]; ok {
			continue
		}

		id, err := ar.GetIdByName(ctx, a.FamilyName, a.FirstName)
		if err != nil {
			return nil, fmt.Errorf("finding existing author: %w", err)
		}

		if id == "" {
			author := &types.Author{FirstName: a.FirstName, FamilyName: a.FamilyName}
			if err := ar.Save(ctx, author); err != nil {
				return nil, fmt.Errorf("saving new author: %w", err)
			}

			id = author.Id
			stats.Authors++
		}

		ret[a.key()] = id
	}

	return ret, nil
}

func (l *Loader) ensureGenres(ctx context.Context, gr genres.Repository, c *Catalog, stats *Stats) (map[string]string, error) {
	var names []string
	names = append(names, c.Genres...)
	for _, b := range c.Books {
		names = append(names, b.Genres...)
	}

	existing, err := gr.GetIdByNames(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("finding existing genres: %w", err)
	}

	ret, err := gr.Insert(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("inserting new genres: %w", err)
	}

	stats.Genres = len(ret) - len(existing)

	return ret, nil
}
