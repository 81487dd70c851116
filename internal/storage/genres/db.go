package genres

import (
	"context"
	"errors"
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

type dbGenre struct {
	Id   string `db:"id"`
	Name string `db:"name"`
}

type dbGenreRow struct {
	Id      string `db:"id"`
	Name    string `db:"name"`
	NameKey string `db:"name_key"`
}

func (p *dbRepo) GetIdByName(ctx context.Context, name string) (string, error) {
	sql, params, err := p.g.From("genre").
		Select("id", "name").
		Where(goqu.C("name_key").Eq(types.NameKey(name))).
		ToSQL()
	if err != nil {
		return "", err
	}

	var row dbGenre

	err = p.db.Get(ctx, &row, sql, params...)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			err = nil
		}
		return "", err
	}

	return row.Id, nil
}

func (p *dbRepo) GetIdByNames(ctx context.Context, names ...string) (map[string]string, error) {
	if len(names) == 0 {
		return make(map[string]string), nil
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, types.NameKey(name))
	}

	sql, params, err := p.g.From("genre").
		Select("id", "name_key").
		Where(goqu.C("name_key").In(keys)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Id      string `db:"id"`
		NameKey string `db:"name_key"`
	}

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]string, len(rows))
	for _, row := range rows {
		ret[row.NameKey] = row.Id
	}

	return ret, nil
}

func (p *dbRepo) Insert(ctx context.Context, names ...string) (map[string]string, error) {
	if len(names) == 0 {
		return make(map[string]string), nil
	}

	existing, err := p.GetIdByNames(ctx, names...)
	if err != nil {
		return nil, err
	}

	rows := make([]any, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := types.NameKey(name)
		if name == "" {
			continue
		}
		if _, ok := existing[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		rows = append(rows, dbGenreRow{Id: uuid.NewString(), Name: name, NameKey: key})
	}

	if len(rows) == 0 {
		return existing, nil
	}

	sql, params, err := p.g.Insert("genre").
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	err = p.db.Exec(ctx, sql, params...)
	if err != nil {
		return nil, err
	}

	// re-read: a concurrent insert of the same name wins over ours
	return p.GetIdByNames(ctx, names...)
}

func (p *dbRepo) GetAll(ctx context.Context) ([]*types.Genre, error) {
	sql, params, err := p.g.From("genre").
		Select("id", "name").
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []dbGenre

	err = p.db.Select(ctx, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Genre, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, &types.Genre{Id: row.Id, Name: row.Name})
	}

	return ret, nil
}
