// Package library is the entry point of the catalog: reads go straight to the book repository,
// creations resolve their references and write inside one storage transaction.
package library

import (
	"context"
	"fmt"
	"log/slog"

	"librarycatalog/internal/storage"
	"librarycatalog/internal/storage/authors"
	"librarycatalog/internal/storage/books"
	"librarycatalog/internal/storage/genres"
	"librarycatalog/internal/types"
)

// Books created for an existing author and genre carry these until someone edits them.
const (
	PlaceholderSummary = "Demo Summary to be updated later"
	PlaceholderIsbn    = "ISBN2022"
)

type Service struct {
	db storage.DB
	l  *slog.Logger

	books  books.Repository
	genres genres.Repository
}

func NewService(db storage.DB, l *slog.Logger) *Service {
	return &Service{
		db:     db,
		l:      l,
		books:  books.NewRepository(db, l),
		genres: genres.NewRepository(db, l),
	}
}

func (s *Service) BooksWithAuthorNames(ctx context.Context) ([]*types.Book, error) {
	return s.books.GetAllWithAuthorNames(ctx)
}

func (s *Service) BooksWithAuthors(ctx context.Context, projection []string, sort ...books.SortField) ([]*types.Book, error) {
	return s.books.GetAllWithAuthors(ctx, projection, sort...)
}

func (s *Service) BookCount(ctx context.Context, filter books.Filter) (int64, error) {
	return s.books.Count(ctx, filter)
}

// Book returns types.ErrNotFound when there is no book with the id.
func (s *Service) Book(ctx context.Context, id string) (*types.Book, error) {
	book, err := s.books.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	if book == nil {
		return nil, fmt.Errorf("book %s %w", id, types.ErrNotFound)
	}

	return book, nil
}

func (s *Service) Genres(ctx context.Context) ([]*types.Genre, error) {
	return s.genres.GetAll(ctx)
}

// CreateBook stores a book whose author and genres are given by id. The returned book carries the
// full author; an unknown author id is types.ErrNotFound.
func (s *Service) CreateBook(ctx context.Context, book *types.Book) (*types.Book, error) {
	if err := books.Validate(book); err != nil {
		return nil, err
	}

	var stored *types.Book

	err := s.db.InTx(ctx, func(tx storage.DB) error {
		found, err := authors.NewRepository(tx, s.l).GetByIds(ctx, book.Author.Id)
		if err != nil {
			return err
		}

		author, ok := found[book.Author.Id]
		if !ok {
			return fmt.Errorf("author %s %w", book.Author.Id, types.ErrNotFound)
		}

		stored, err = books.NewRepository(tx, s.l).Insert(ctx, book)
		if err != nil {
			return err
		}

		stored.Author = author
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// SaveBookOfExistingAuthorAndGenre stores a new book titled title for the author and the genre found
// by name, with placeholder summary and isbn. It writes nothing and returns types.ErrNotFound when
// either name is unknown.
func (s *Service) SaveBookOfExistingAuthorAndGenre(ctx context.Context,
	familyName, firstName, genreName, title string) (*types.Book, error) {

	var stored *types.Book

	err := s.db.InTx(ctx, func(tx storage.DB) error {
		authorId, err := authors.NewRepository(tx, s.l).GetIdByName(ctx, familyName, firstName)
		if err != nil {
			return err
		}

		genreId, err := genres.NewRepository(tx, s.l).GetIdByName(ctx, genreName)
		if err != nil {
			return err
		}

		if authorId == "" || genreId == "" {
			s.l.DebugContext(ctx, "Cannot create book "+title+": author ("+familyName+", "+firstName+
				") or genre ("+genreName+") not found")
			return fmt.Errorf("author or genre %w", types.ErrNotFound)
		}

		stored, err = books.NewRepository(tx, s.l).Insert(ctx, &types.Book{
			Title:   title,
			Author:  &types.Author{Id: authorId},
			Summary: PlaceholderSummary,
			Isbn:    PlaceholderIsbn,
			Genres:  []string{genreId},
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}
