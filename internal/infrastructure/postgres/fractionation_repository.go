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

var _ repository.FractionationRepository = (*FractionationRepo)(nil)

// FractionationRepo implementación sobre PostgreSQL (usable con pool o tx).
// El folio sale de la secuencia fractionation_folio_seq dentro del INSERT:
// único y estrictamente creciente bajo ejecuciones concurrentes, con huecos
// tolerados cuando una transacción revierte.
type FractionationRepo struct {
	q Querier
}

// NewFractionationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFractionationRepository(q Querier) *FractionationRepo {
	return &FractionationRepo{q: q}
}

const fractionationColumns = `id, folio_number, source_product_id, destination_product_id, product_conversion_id,
		warehouse_id, user_id, source_quantity, produced_quantity, waste_percentage, waste_quantity,
		conversion_factor_used, exit_movement_id, entry_movement_id, status, notes, idempotency_key, executed_at`

// Create persiste la fracción asignando el folio desde la secuencia dedicada.
func (r *FractionationRepo) Create(ctx context.Context, f *entity.Fractionation) error {
	query := `
		INSERT INTO fractionations (` + fractionationColumns + `)
		VALUES ($1, nextval('fractionation_folio_seq'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING folio_number`
	err := r.q.QueryRow(ctx, query,
		f.ID, f.SourceProductID, f.DestinationProductID, f.ProductConversionID,
		f.WarehouseID, nullable(f.UserID), f.SourceQuantity, f.ProducedQuantity,
		f.WastePercentage, f.WasteQuantity, f.ConversionFactorUsed,
		f.ExitMovementID, f.EntryMovementID, f.Status, f.Notes, nullable(f.IdempotencyKey), f.ExecutedAt,
	).Scan(&f.FolioNumber)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create fractionation: %w", err)
	}
	return nil
}

// GetByID obtiene una fracción; includeMovements carga los movimientos ligados.
func (r *FractionationRepo) GetByID(ctx context.Context, id string, includeMovements bool) (*entity.Fractionation, error) {
	query := `SELECT ` + fractionationColumns + ` FROM fractionations WHERE id = $1`
	f, err := scanFractionation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fractionation: %w", err)
	}
	if includeMovements {
		if err := r.attachMovements(ctx, f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// GetByIdempotencyKey busca una fracción ya confirmada para la llave dada.
func (r *FractionationRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Fractionation, error) {
	query := `SELECT ` + fractionationColumns + ` FROM fractionations WHERE idempotency_key = $1`
	f, err := scanFractionation(r.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fractionation by idempotency key: %w", err)
	}
	return f, nil
}

// List devuelve el histórico paginado, folio descendente, con total para la
// paginación de la vista de administración.
func (r *FractionationRepo) List(ctx context.Context, filter repository.FractionationFilter) ([]*entity.Fractionation, int, error) {
	where := " WHERE 1=1"
	var args []any
	pos := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.SourceProductID != "" {
		where += fmt.Sprintf(" AND source_product_id = $%d", pos)
		args = append(args, filter.SourceProductID)
		pos++
	}
	if filter.WarehouseID != "" {
		where += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM fractionations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fractionations: %w", err)
	}

	query := `SELECT ` + fractionationColumns + ` FROM fractionations` + where +
		fmt.Sprintf(" ORDER BY folio_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list fractionations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Fractionation
	for rows.Next() {
		f, err := scanFractionation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan fractionation: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if filter.IncludeMovements {
		for _, f := range list {
			if err := r.attachMovements(ctx, f); err != nil {
				return nil, 0, err
			}
		}
	}
	return list, total, nil
}

func (r *FractionationRepo) attachMovements(ctx context.Context, f *entity.Fractionation) error {
	movRepo := NewInventoryMovementRepository(r.q)
	exit, err := movRepo.GetByID(ctx, f.ExitMovementID)
	if err != nil {
		return err
	}
	entry, err := movRepo.GetByID(ctx, f.EntryMovementID)
	if err != nil {
		return err
	}
	f.ExitMovement = exit
	f.EntryMovement = entry
	return nil
}

func scanFractionation(row pgx.Row) (*entity.Fractionation, error) {
	var f entity.Fractionation
	var userID, idemKey *string
	err := row.Scan(
		&f.ID, &f.FolioNumber, &f.SourceProductID, &f.DestinationProductID, &f.ProductConversionID,
		&f.WarehouseID, &userID, &f.SourceQuantity, &f.ProducedQuantity, &f.WastePercentage,
		&f.WasteQuantity, &f.ConversionFactorUsed, &f.ExitMovementID, &f.EntryMovementID,
		&f.Status, &f.Notes, &idemKey, &f.ExecutedAt,
	)
	if err != nil {
		return nil, err
	}
	f.UserID = deref(userID)
	f.IdempotencyKey = deref(idemKey)
	return &f, nil
}
