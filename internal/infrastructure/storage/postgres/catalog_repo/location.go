package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/domain/catalogs/location"
	"fulfilment/internal/infrastructure/storage/postgres"
)

const locationTable = "locations"

var locationColumns = postgres.ExtractDBColumns[location.Location]()

// LocationRepo resolves locations from the locations table.
type LocationRepo struct {
	baseRepo
}

var _ location.Resolver = (*LocationRepo)(nil)

// NewLocationRepo creates a new location repository.
func NewLocationRepo(txm *postgres.TxManager) *LocationRepo {
	return &LocationRepo{baseRepo: newBaseRepo(txm, locationTable, locationColumns)}
}

// ResolveByIdentifier implements location.Resolver.
func (r *LocationRepo) ResolveByIdentifier(ctx context.Context, identifier string) (*location.Location, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.NewNotFound("location", identifier)
	}

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"identification": identifier}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var loc location.Location
	if err := pgxscan.Get(ctx, r.querier(ctx), &loc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("location", identifier)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// All returns every location ordered by identifier.
func (r *LocationRepo) All(ctx context.Context) ([]location.Location, error) {
	sql, args, err := r.baseSelect().OrderBy("identification").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []location.Location
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	return out, nil
}
