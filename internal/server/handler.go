package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"librarycatalog/internal/response"
	"librarycatalog/internal/storage/books"
	"librarycatalog/internal/types"
)

// Catalog is the part of library.Service the handlers need.
type Catalog interface {
	BooksWithAuthorNames(ctx context.Context) ([]*types.Book, error)
	BooksWithAuthors(ctx context.Context, projection []string, sort ...books.SortField) ([]*types.Book, error)
	BookCount(ctx context.Context, filter books.Filter) (int64, error)
	Book(ctx context.Context, id string) (*types.Book, error)
	Genres(ctx context.Context) ([]*types.Genre, error)

	CreateBook(ctx context.Context, book *types.Book) (*types.Book, error)
	SaveBookOfExistingAuthorAndGenre(ctx context.Context, familyName, firstName, genreName, title string) (*types.Book, error)
}

type createBookRequest struct {
	Title    string   `json:"title"`
	AuthorId string   `json:"author"`
	Summary  string   `json:"summary"`
	Isbn     string   `json:"isbn"`
	Genres   []string `json:"genre"`
}

type newBookRequest struct {
	AuthorFamilyName string `json:"author_family_name"`
	AuthorFirstName  string `json:"author_first_name"`
	GenreName        string `json:"genre_name"`
	Title            string `json:"title"`
}

func Handler(c Catalog, rr *response.Responder) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to the Library API!"))
	})

	r.Get("/new-endpoint", func(w http.ResponseWriter, r *http.Request) {
		rows, err := c.BooksWithAuthorNames(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if rows == nil {
			rows = make([]*types.Book, 0)
		}

		rr.SendJson(w, r.Context(), rows)
	})

	r.Get("/genres", func(w http.ResponseWriter, r *http.Request) {
		rows, err := c.Genres(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if rows == nil {
			rows = make([]*types.Genre, 0)
		}

		rr.SendJson(w, r.Context(), rows)
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()

			var rows []*types.Book
			var total int64

			g, ctx := errgroup.WithContext(r.Context())
			g.Go(func() error {
				var err error
				rows, err = c.BooksWithAuthors(ctx,
					books.ParseProjection(strings.Join(q["fields"], ",")),
					books.ParseSort(strings.Join(q["sort"], ","))...)
				return err
			})
			g.Go(func() error {
				var err error
				total, err = c.BookCount(ctx, books.Filter{})
				return err
			})

			if err := g.Wait(); err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			if rows == nil {
				rows = make([]*types.Book, 0)
			}

			rr.SendList(w, r.Context(), rows, total)
		})

		r.Get("/count", func(w http.ResponseWriter, r *http.Request) {
			count, err := c.BookCount(r.Context(), getFilter(r.URL.Query()))
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), count)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			book, err := c.Book(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), book)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req createBookRequest
			if err := response.DecodeJson(r, &req); err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			book := &types.Book{
				Title:   strings.TrimSpace(req.Title),
				Summary: strings.TrimSpace(req.Summary),
				Isbn:    strings.TrimSpace(req.Isbn),
				Genres:  req.Genres,
			}
			if authorId := strings.TrimSpace(req.AuthorId); authorId != "" {
				book.Author = &types.Author{Id: authorId}
			}

			stored, err := c.CreateBook(r.Context(), book)
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			rr.SendCreated(w, r.Context(), stored)
		})
	})

	r.Post("/newbook", func(w http.ResponseWriter, r *http.Request) {
		var req newBookRequest
		if err := response.DecodeJson(r, &req); err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		stored, err := c.SaveBookOfExistingAuthorAndGenre(r.Context(),
			req.AuthorFamilyName, req.AuthorFirstName, req.GenreName, strings.TrimSpace(req.Title))
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		rr.SendCreated(w, r.Context(), stored)
	})

	return r
}

func getFilter(q url.Values) books.Filter {
	return books.Filter{
		Title:    strings.TrimSpace(q.Get("title")),
		Isbn:     strings.TrimSpace(q.Get("isbn")),
		AuthorId: strings.TrimSpace(q.Get("author")),
		GenreId:  strings.TrimSpace(q.Get("genre")),
	}
}
