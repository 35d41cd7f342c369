package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las filas completed son de solo inserción: no existe Update y el único
// DELETE exige status = 'draft'.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, movement_type, adjustment_direction, product_id, warehouse_id, location_id,
		quantity, unit_cost, reference_type, reference_id, destination_warehouse_id, destination_location_id,
		status, movement_date, user_id, batch_info, metadata, notes, created_at`

// Create persiste un movimiento del libro.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var metadata []byte
	if m.Metadata != nil {
		var err error
		metadata, err = json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MovementType, nullable(m.AdjustmentDirection), m.ProductID, m.WarehouseID, m.LocationID,
		m.Quantity, m.UnitCost, m.ReferenceType, nullable(m.ReferenceID),
		nullable(m.DestinationWarehouseID), nullable(m.DestinationLocationID),
		m.Status, m.MovementDate, nullable(m.UserID), nullable(m.BatchInfo), metadata, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos aplicando los filtros presentes, más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.WarehouseID != "" {
		add("warehouse_id = $%d", filter.WarehouseID)
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.MovementType != "" {
		add("movement_type = $%d", filter.MovementType)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if filter.From != nil {
		add("movement_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("movement_date <= $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// DeleteDraft elimina un movimiento solo si sigue en borrador. Si la fila
// existe pero ya no es draft, responde ErrImmutableMovement.
func (r *InventoryMovementRepo) DeleteDraft(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("delete draft movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrImmutableMovement
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var adjDir, refID, destWh, destLoc, userID, batchInfo *string
	var metadata []byte
	err := row.Scan(
		&m.ID, &m.MovementType, &adjDir, &m.ProductID, &m.WarehouseID, &m.LocationID,
		&m.Quantity, &m.UnitCost, &m.ReferenceType, &refID, &destWh, &destLoc,
		&m.Status, &m.MovementDate, &userID, &batchInfo, &metadata, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.AdjustmentDirection = deref(adjDir)
	m.ReferenceID = deref(refID)
	m.DestinationWarehouseID = deref(destWh)
	m.DestinationLocationID = deref(destLoc)
	m.UserID = deref(userID)
	m.BatchInfo = deref(batchInfo)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
