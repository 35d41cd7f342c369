package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

var _ repository.ProductConversionRepository = (*ProductConversionRepo)(nil)

// ProductConversionRepo implementación del catálogo de conversiones sobre
// PostgreSQL. El índice único parcial (source, destination) WHERE active
// garantiza a lo más una conversión activa por par ordenado.
type ProductConversionRepo struct {
	q Querier
}

// NewProductConversionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductConversionRepository(q Querier) *ProductConversionRepo {
	return &ProductConversionRepo{q: q}
}

const conversionColumns = "id, source_product_id, destination_product_id, conversion_factor, waste_percentage, active, created_at, updated_at"

// Lookup busca la conversión activa para el par ordenado. Sin fila activa,
// responde ErrConversionNotConfigured (resultado de negocio, no falla).
func (r *ProductConversionRepo) Lookup(ctx context.Context, sourceProductID, destinationProductID string) (*entity.ProductConversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM product_conversions
		WHERE source_product_id = $1 AND destination_product_id = $2 AND active`
	var c entity.ProductConversion
	err := r.q.QueryRow(ctx, query, sourceProductID, destinationProductID).Scan(
		&c.ID, &c.SourceProductID, &c.DestinationProductID,
		&c.ConversionFactor, &c.WastePercentage, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversionNotConfigured
		}
		return nil, fmt.Errorf("lookup conversion: %w", err)
	}
	return &c, nil
}

// GetByID obtiene una conversión por ID (activa o no).
func (r *ProductConversionRepo) GetByID(ctx context.Context, id string) (*entity.ProductConversion, error) {
	query := `SELECT ` + conversionColumns + ` FROM product_conversions WHERE id = $1`
	var c entity.ProductConversion
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SourceProductID, &c.DestinationProductID,
		&c.ConversionFactor, &c.WastePercentage, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return &c, nil
}

// ListBySource lista las conversiones activas de un producto origen.
func (r *ProductConversionRepo) ListBySource(ctx context.Context, sourceProductID string) ([]*entity.ProductConversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM product_conversions
		WHERE source_product_id = $1 AND active
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, sourceProductID)
	if err != nil {
		return nil, fmt.Errorf("list conversions by source: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductConversion
	for rows.Next() {
		var c entity.ProductConversion
		if err := rows.Scan(&c.ID, &c.SourceProductID, &c.DestinationProductID,
			&c.ConversionFactor, &c.WastePercentage, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Create registra una conversión. El par ordenado activo duplicado responde
// ErrDuplicate.
func (r *ProductConversionRepo) Create(ctx context.Context, c *entity.ProductConversion) error {
	query := `
		INSERT INTO product_conversions (` + conversionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.SourceProductID, c.DestinationProductID,
		c.ConversionFactor, c.WastePercentage, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create conversion: %w", err)
	}
	return nil
}

// Deactivate retira una conversión del catálogo (las fracciones pasadas
// conservan su fotografía del factor).
func (r *ProductConversionRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE product_conversions SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate conversion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
