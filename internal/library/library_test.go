package library_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarycatalog/internal/library"
	"librarycatalog/internal/storage/authors"
	"librarycatalog/internal/storage/books"
	"librarycatalog/internal/storage/genres"
	"librarycatalog/internal/storage/storagetest"
	"librarycatalog/internal/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type seeded struct {
	svc     *library.Service
	jane    *types.Author
	fiction string
}

// newSeeded returns a service over a store holding the author Jane Doe and the genre Fiction.
func newSeeded(t *testing.T) *seeded {
	t.Helper()

	ctx := context.Background()
	db := storagetest.NewDB(t)

	jane := &types.Author{FirstName: "Jane", FamilyName: "Doe"}
	require.NoError(t, authors.NewRepository(db, discard).Save(ctx, jane))

	gs, err := genres.NewRepository(db, discard).Insert(ctx, "Fiction")
	require.NoError(t, err)

	return &seeded{svc: library.NewService(db, discard), jane: jane, fiction: gs["fiction"]}
}

func (s *seeded) count(t *testing.T) int64 {
	t.Helper()

	n, err := s.svc.BookCount(context.Background(), books.Filter{})
	require.NoError(t, err)
	return n
}

func TestSaveBookOfExistingAuthorAndGenre(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	before := s.count(t)

	book, err := s.svc.SaveBookOfExistingAuthorAndGenre(ctx, "Doe", "Jane", "Fiction", "My Book")
	require.NoError(t, err)

	assert.NotEmpty(t, book.Id)
	assert.Equal(t, "My Book", book.Title)
	assert.Equal(t, library.PlaceholderSummary, book.Summary)
	assert.Equal(t, library.PlaceholderIsbn, book.Isbn)
	require.NotNil(t, book.Author)
	assert.Equal(t, s.jane.Id, book.Author.Id)
	assert.Equal(t, []string{s.fiction}, book.Genres)

	assert.Equal(t, before+1, s.count(t))

	stored, err := s.svc.Book(ctx, book.Id)
	require.NoError(t, err)
	assert.Equal(t, "My Book", stored.Title)
	assert.Equal(t, []string{s.fiction}, stored.Genres)
	assert.Equal(t, "Doe, Jane", stored.Author.Name)
}

func TestSaveBookOfExistingAuthorAndGenre_NamesAreCaseInsensitive(t *testing.T) {
	s := newSeeded(t)

	book, err := s.svc.SaveBookOfExistingAuthorAndGenre(context.Background(), "doe", "JANE", "fiction", "My Book")
	require.NoError(t, err)

	assert.Equal(t, s.jane.Id, book.Author.Id)
	assert.Equal(t, []string{s.fiction}, book.Genres)
}

func TestSaveBookOfExistingAuthorAndGenre_NotFound(t *testing.T) {
	tests := []struct {
		name       string
		familyName string
		firstName  string
		genreName  string
	}{
		{name: "unknown_author", familyName: "Nobody", firstName: "Jane", genreName: "Fiction"},
		{name: "unknown_genre", familyName: "Doe", firstName: "Jane", genreName: "Poetry"},
		{name: "both_unknown", familyName: "Nobody", firstName: "Here", genreName: "Poetry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeeded(t)
			before := s.count(t)

			book, err := s.svc.SaveBookOfExistingAuthorAndGenre(context.Background(),
				tt.familyName, tt.firstName, tt.genreName, "My Book")

			assert.ErrorIs(t, err, types.ErrNotFound)
			assert.Nil(t, book)
			assert.Equal(t, before, s.count(t))
		})
	}
}

func TestSaveBookOfExistingAuthorAndGenre_EmptyTitle(t *testing.T) {
	s := newSeeded(t)

	_, err := s.svc.SaveBookOfExistingAuthorAndGenre(context.Background(), "Doe", "Jane", "Fiction", "")

	assert.ErrorIs(t, err, types.ErrInvalid)
	assert.Zero(t, s.count(t))
}

func TestBooksWithAuthorNames(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	got, err := s.svc.BooksWithAuthorNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.svc.SaveBookOfExistingAuthorAndGenre(ctx, "Doe", "Jane", "Fiction", "My Book")
	require.NoError(t, err)

	got, err = s.svc.BooksWithAuthorNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*types.Book{
		{Title: "My Book", Author: &types.Author{Name: "Doe, Jane"}},
	}, got)
}

func TestBooksWithAuthors_SortedByTitle(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	for _, title := range []string{"Walden", "Beloved", "Ulysses", "Amerika"} {
		_, err := s.svc.SaveBookOfExistingAuthorAndGenre(ctx, "Doe", "Jane", "Fiction", title)
		require.NoError(t, err)
	}

	got, err := s.svc.BooksWithAuthors(ctx, []string{"title"}, books.SortField{Field: books.FieldTitle, Order: books.Asc})
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Title, got[i].Title)
	}
}

func TestCreateBook(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	book, err := s.svc.CreateBook(ctx, &types.Book{
		Title:   "Persuasion",
		Author:  &types.Author{Id: s.jane.Id},
		Summary: "Second chances",
		Isbn:    "978-0141439686",
	})
	require.NoError(t, err)

	n, err := s.svc.BookCount(ctx, books.Filter{Isbn: "978-0141439686"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.svc.BookCount(ctx, books.Filter{GenreId: s.fiction})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.svc.CreateBook(ctx, &types.Book{Title: "No author", Summary: "x", Isbn: "y"})
	assert.ErrorIs(t, err, types.ErrInvalid)

	stored, err := s.svc.Book(ctx, book.Id)
	require.NoError(t, err)
	assert.Equal(t, "Persuasion", stored.Title)
	assert.Equal(t, stored.Author, book.Author)
}

func TestCreateBook_UnknownAuthor(t *testing.T) {
	s := newSeeded(t)

	book, err := s.svc.CreateBook(context.Background(), &types.Book{
		Title:   "Persuasion",
		Author:  &types.Author{Id: "missing"},
		Summary: "Second chances",
		Isbn:    "978-0141439686",
		Genres:  []string{s.fiction},
	})

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, book)
	assert.Zero(t, s.count(t))
}

func TestBook_NotFound(t *testing.T) {
	s := newSeeded(t)

	_, err := s.svc.Book(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGenres(t *testing.T) {
	s := newSeeded(t)

	got, err := s.svc.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*types.Genre{{Id: s.fiction, Name: "Fiction"}}, got)
}

func TestSaveBookOfExistingAuthorAndGenre_NonASCIINames(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewDB(t)

	zola := &types.Author{FirstName: "Émile", FamilyName: "Zola"}
	require.NoError(t, authors.NewRepository(db, discard).Save(ctx, zola))

	gs, err := genres.NewRepository(db, discard).Insert(ctx, "Érotique")
	require.NoError(t, err)

	svc := library.NewService(db, discard)

	book, err := svc.SaveBookOfExistingAuthorAndGenre(ctx, "Zola", "Émile", "Érotique", "Nana")
	require.NoError(t, err)
	assert.Equal(t, zola.Id, book.Author.Id)
	assert.Equal(t, []string{gs[types.NameKey("Érotique")]}, book.Genres)

	_, err = svc.SaveBookOfExistingAuthorAndGenre(ctx, "ZOLA", "ÉMILE", "ÉROTIQUE", "Nana II")
	require.NoError(t, err)

	n, err := svc.BookCount(ctx, books.Filter{AuthorId: zola.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
