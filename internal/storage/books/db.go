package books

import (
	"context"
	"errors"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"librarycatalog/internal/storage"
	"librarycatalog/internal/types"
)

// sortable maps sort field names onto book columns
var sortable = map[string]string{
	FieldId:      "book.id",
	FieldTitle:   "book.title",
	FieldAuthor:  "book.author_id",
	FieldSummary: "book.summary",
	FieldIsbn:    "book.isbn",
}

func NewRepository(db storage.DB, l *slog.Logger) Repository {
	return &dbRepo{db: db, g: db.Dialect(), l: l}
}

type dbRepo struct {
	db storage.DB
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type dbBook struct {
	Id       string `db:"id"`
	Title    string `db:"title"`
	Summary  string `db:"summary"`
	Isbn     string `db:"isbn"`
	AuthorId string `db:"author_id"`
}

// dbBookRow is a book joined with its author. Every column is optional so one struct serves all
// projections; author columns stay nil when the author row is missing.
type dbBookRow struct {
	Id               string  `db:"id"`
	Title            string  `db:"title"`
	Summary          string  `db:"summary"`
	Isbn             string  `db:"isbn"`
	AuthorId         *string `db:"author_id"`
	AuthorFirstName  *string `db:"author_first_name"`
	AuthorFamilyName *string `db:"author_family_name"`
}

type dbBookGenre struct {
	BookId     string `db:"book_id"`
	GenreId    string `db:"genre_id"`
	GenreOrder int    `db:"genre_order"`
}

func (b *dbBookRow) intoCommon(genres []string) *types.Book {
	book := &types.Book{
		Id:      b.Id,
		Title:   b.Title,
		Summary: b.Summary,
		Isbn:    b.Isbn,
		Genres:  genres,
	}

	if b.AuthorId == nil && b.AuthorFirstName == nil && b.AuthorFamilyName == nil {
		return book
	}

	book.Author = &types.Author{}
	if b.AuthorId != nil {
		book.Author.Id = *b.AuthorId
	}

	if b.AuthorFirstName != nil && b.AuthorFamilyName != nil {
		if book.Author.Id != "" {
			book.Author.FirstName = *b.AuthorFirstName
			book.Author.FamilyName = *b.AuthorFamilyName
		}
		book.Author.Name = types.AuthorName(*b.AuthorFamilyName, *b.AuthorFirstName)
	}

	return book
}

func (p *dbRepo) joinAuthor(qb *goqu.SelectDataset) *goqu.SelectDataset {
	return qb.LeftJoin(goqu.T("author"), goqu.On(
		goqu.I("author.id").Eq(goqu.I("book.author_id")),
	))
}

func (p *dbRepo) GetAllWithAuthorNames(ctx context.Context) ([]*types.Book, error) {
	sql, params, err := p.joinAuthor(p.g.From("book")).
		Select(
			goqu.I("book.title").As("title"),
			goqu.I("author.first_name").As("author_first_name"),
			goqu.I("author.family_name").As("author_family_name"),
		).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []dbBookRow

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(nil))
	}

	return ret, nil
}

func (p *dbRepo) GetAllWithAuthors(ctx context.Context, projection []string, sort ...SortField) ([]*types.Book, error) {
	fields := projected(projection)

	qb := p.g.From("book").
		Select(goqu.I("book.id").As("id"))

	for _, f := range []string{FieldTitle, FieldSummary, FieldIsbn} {
		if _, ok := fields[f]; ok {
			qb = qb.SelectAppend(goqu.I("book." + f).As(f))
		}
	}

	if _, ok := fields[FieldAuthor]; ok {
		qb = p.joinAuthor(qb).SelectAppend(
			goqu.I("book.author_id").As("author_id"),
			goqu.I("author.first_name").As("author_first_name"),
			goqu.I("author.family_name").As("author_family_name"),
		)
	}

	for _, s := range sort {
		col, ok := sortable[s.Field]
		if !ok {
			continue
		}

		if s.Order == Desc {
			qb = qb.OrderAppend(goqu.I(col).Desc())
		} else {
			qb = qb.OrderAppend(goqu.I(col).Asc())
		}
	}

	sql, params, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []dbBookRow

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	var genres map[string][]string
	if _, ok := fields[FieldGenre]; ok && len(rows) > 0 {
		genres, err = p.getGenres(ctx)
		if err != nil {
			return nil, err
		}
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(genres[row.Id]))
	}

	return ret, nil
}

func (p *dbRepo) GetById(ctx context.Context, id string) (*types.Book, error) {
	sql, params, err := p.joinAuthor(p.g.From("book")).
		Select(
			goqu.I("book.id").As("id"),
			goqu.I("book.title").As("title"),
			goqu.I("book.summary").As("summary"),
			goqu.I("book.isbn").As("isbn"),
			goqu.I("book.author_id").As("author_id"),
			goqu.I("author.first_name").As("author_first_name"),
			goqu.I("author.family_name").As("author_family_name"),
		).
		Where(goqu.I("book.id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row dbBookRow

	err = p.db.Get(ctx, &row, sql, params...)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	genres, err := p.getGenres(ctx, id)
	if err != nil {
		return nil, err
	}

	return row.intoCommon(genres[id]), nil
}

// getGenres returns genre ids in book order keyed by book id, for the given books or for all of them
func (p *dbRepo) getGenres(ctx context.Context, bookIds ...string) (map[string][]string, error) {
	qb := p.g.From("book_genre").
		Select("book_id", "genre_id", "genre_order").
		Order(goqu.C("book_id").Asc(), goqu.C("genre_order").Asc())

	if len(bookIds) > 0 {
		qb = qb.Where(goqu.C("book_id").In(bookIds))
	}

	sql, params, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []dbBookGenre

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string][]string)
	for _, row := range rows {
		ret[row.BookId] = append(ret[row.BookId], row.GenreId)
	}

	return ret, nil
}

func (p *dbRepo) Count(ctx context.Context, filter Filter) (int64, error) {
	var where []exp.Expression

	if filter.Title != "" {
		where = append(where, goqu.C("title").Eq(filter.Title))
	}

	if filter.Isbn != "" {
		where = append(where, goqu.C("isbn").Eq(filter.Isbn))
	}

	if filter.AuthorId != "" {
		where = append(where, goqu.C("author_id").Eq(filter.AuthorId))
	}

	if filter.GenreId != "" {
		where = append(where, goqu.C("id").In(
			p.g.From("book_genre").
				Select("book_id").
				Where(goqu.C("genre_id").Eq(filter.GenreId)),
		))
	}

	sql, params, err := p.g.From("book").
		Select(goqu.COUNT("*").As("count")).
		Where(where...).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var count int64

	err = p.db.Get(ctx, &count, sql, params...)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *dbRepo) Insert(ctx context.Context, book *types.Book) (*types.Book, error) {
	if err := Validate(book); err != nil {
		return nil, err
	}

	stored := &types.Book{
		Id:      uuid.NewString(),
		Title:   book.Title,
		Author:  &types.Author{Id: book.Author.Id},
		Summary: book.Summary,
		Isbn:    book.Isbn,
		Genres:  append([]string(nil), book.Genres...),
	}

	err := p.db.InTx(ctx, func(tx storage.DB) error {
		sql, params, err := p.g.Insert("book").
			Rows(dbBook{
				Id:       stored.Id,
				Title:    stored.Title,
				Summary:  stored.Summary,
				Isbn:     stored.Isbn,
				AuthorId: stored.Author.Id,
			}).
			ToSQL()
		if err != nil {
			return err
		}

		err = tx.Exec(ctx, sql, params...)
		if err != nil {
			return err
		}

		if len(stored.Genres) == 0 {
			return nil
		}

		rows := make([]any, 0, len(stored.Genres))
		for ix, genreId := range stored.Genres {
			rows = append(rows, dbBookGenre{
				BookId:     stored.Id,
				GenreId:    genreId,
				GenreOrder: ix + 1,
			})
		}

		sql, params, err = p.g.Insert("book_genre").
			Rows(rows...).
			ToSQL()
		if err != nil {
			return err
		}

		return tx.Exec(ctx, sql, params...)
	})
	if err != nil {
		return nil, err
	}

	p.l.DebugContext(ctx, "Stored book "+stored.Id+" ("+stored.Title+")")

	return stored, nil
}
