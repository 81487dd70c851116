package authors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"librarycatalog/internal/storage"
	"librarycatalog/internal/types"
)

func NewRepository(db storage.DB, l *slog.Logger) Repository {
	return &dbRepo{db: db, g: db.Dialect(), l: l}
}

type dbRepo struct {
	db storage.DB
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type dbAuthor struct {
	Id         string `db:"id"`
	FirstName  string `db:"first_name"`
	FamilyName string `db:"family_name"`
}

// dbAuthorRow is what Save writes: the names plus their folded lookup keys
type dbAuthorRow struct {
	Id            string `db:"id"`
	FirstName     string `db:"first_name"`
	FamilyName    string `db:"family_name"`
	FirstNameKey  string `db:"first_name_key"`
	FamilyNameKey string `db:"family_name_key"`
}

func (a *dbAuthor) intoCommon() *types.Author {
	return &types.Author{
		Id:         a.Id,
		FirstName:  a.FirstName,
		FamilyName: a.FamilyName,
		Name:       types.AuthorName(a.FamilyName, a.FirstName),
	}
}

func (p *dbRepo) GetIdByName(ctx context.Context, familyName, firstName string) (string, error) {
	sql, params, err := p.g.From("author").
		Select("id", "first_name", "family_name").
		Where(
			goqu.C("family_name_key").Eq(types.NameKey(familyName)),
			goqu.C("first_name_key").Eq(types.NameKey(firstName)),
		).
		Order(goqu.C("id").Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", err
	}

	var row dbAuthor

	err = p.db.Get(ctx, &row, sql, params...)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			err = nil
		}
		return "", err
	}

	return row.Id, nil
}

func (p *dbRepo) GetByIds(ctx context.Context, ids ...string) (map[string]*types.Author, error) {
	if len(ids) == 0 {
		return make(map[string]*types.Author), nil
	}

	sql, params, err := p.g.From("author").
		Select("id", "first_name", "family_name").
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []dbAuthor

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]*types.Author, len(rows))
	for _, row := range rows {
		ret[row.Id] = row.intoCommon()
	}

	return ret, nil
}

func (p *dbRepo) Save(ctx context.Context, authors ...*types.Author) error {
	if len(authors) == 0 {
		return nil
	}

	rows := make([]any, 0, len(authors))
	for _, author := range authors {
		author.FirstName = strings.TrimSpace(author.FirstName)
		author.FamilyName = strings.TrimSpace(author.FamilyName)
		if author.FirstName == "" && author.FamilyName == "" {
			return fmt.Errorf("author without a name: %w", types.ErrInvalid)
		}

		if author.Id == "" {
			author.Id = uuid.NewString()
		}
		author.Name = types.AuthorName(author.FamilyName, author.FirstName)

		rows = append(rows, dbAuthorRow{
			Id:            author.Id,
			FirstName:     author.FirstName,
			FamilyName:    author.FamilyName,
			FirstNameKey:  types.NameKey(author.FirstName),
			FamilyNameKey: types.NameKey(author.FamilyName),
		})
	}

	sql, params, err := p.g.Insert("author").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"first_name":      goqu.L("excluded.first_name"),
			"family_name":     goqu.L("excluded.family_name"),
			"first_name_key":  goqu.L("excluded.first_name_key"),
			"family_name_key": goqu.L("excluded.family_name_key"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	return p.db.Exec(ctx, sql, params...)
}
