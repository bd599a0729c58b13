package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// itemColumns is the select list shared by every item query; the owning user
// is always joined in because item responses embed the owner summary
const itemColumns = `
	i.id, i.name, i.description, i.quantity, i.price, i.category, i.sku,
	i.owner_id, i.created_at, i.updated_at,
	u.id, u.name, u.email, u.role
`

// itemRepository provides data access for the inventory_items table
type itemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewItemRepository creates a new inventory item repository
func NewItemRepository(db *sql.DB, logger *zap.Logger) *itemRepository {
	return &itemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new item. The owner and timestamps are assigned by the
// server; an SKU collision is surfaced as models.ErrDuplicateSKU.
func (r *itemRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (name, description, quantity, price, category, sku, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	description := sql.NullString{String: item.Description, Valid: item.Description != ""}

	result, err := r.db.ExecContext(ctx, query,
		item.Name,
		description,
		item.Quantity,
		item.Price,
		item.Category,
		item.SKU,
		item.OwnerID,
	)
	if err != nil {
		if isDuplicateEntry(err, "sku") {
			return models.ErrDuplicateSKU
		}
		r.logger.Error("failed to create inventory item", zap.Error(err))
		return wrapDBError("failed to create inventory item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = int(id)
	return nil
}

// GetByID retrieves an item with its owner summary
func (r *itemRepository) GetByID(ctx context.Context, id int) (*models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_items i
		JOIN users u ON u.id = i.owner_id
		WHERE i.id = ?
		LIMIT 1
	`, itemColumns)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		r.logger.Error("failed to get inventory item", zap.Error(err), zap.Int("id", id))
		return nil, wrapDBError("failed to get inventory item", err)
	}

	return item, nil
}

// ListAll retrieves every item, most recently created first
func (r *itemRepository) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_items i
		JOIN users u ON u.id = i.owner_id
		ORDER BY i.created_at DESC, i.id DESC
	`, itemColumns)

	return r.list(ctx, query)
}

// ListByOwner retrieves the items owned by one user, most recently created first
func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_items i
		JOIN users u ON u.id = i.owner_id
		WHERE i.owner_id = ?
		ORDER BY i.created_at DESC, i.id DESC
	`, itemColumns)

	return r.list(ctx, query, ownerID)
}

// Update applies only the fields present in the patch as a single conditional
// write. When ownerScope is non-nil the statement additionally requires the
// row's owner to match, so a raced ownership assumption can never mutate a
// foreign item. Zero matched rows surface as models.ErrItemNotFound.
func (r *itemRepository) Update(ctx context.Context, id int, patch *models.UpdateItemRequest, ownerScope *int) error {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 9)

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, sql.NullString{String: *patch.Description, Valid: *patch.Description != ""})
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.SKU != nil {
		sets = append(sets, "sku = ?")
		args = append(args, *patch.SKU)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf("UPDATE inventory_items SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)
	if ownerScope != nil {
		query += " AND owner_id = ?"
		args = append(args, *ownerScope)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateEntry(err, "sku") {
			return models.ErrDuplicateSKU
		}
		r.logger.Error("failed to update inventory item", zap.Error(err), zap.Int("id", id))
		return wrapDBError("failed to update inventory item", err)
	}

	// Requires clientFoundRows in the DSN so a same-value patch still counts
	// as a matched row
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrItemNotFound
	}

	return nil
}

// Delete removes an item as a single conditional write, scoped to the owner
// when ownerScope is non-nil
func (r *itemRepository) Delete(ctx context.Context, id int, ownerScope *int) error {
	query := `DELETE FROM inventory_items WHERE id = ?`
	args := []any{id}
	if ownerScope != nil {
		query += " AND owner_id = ?"
		args = append(args, *ownerScope)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to delete inventory item", zap.Error(err), zap.Int("id", id))
		return wrapDBError("failed to delete inventory item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrItemNotFound
	}

	return nil
}

// Count returns the total number of items
func (r *itemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_items`).Scan(&count); err != nil {
		r.logger.Error("failed to count inventory items", zap.Error(err))
		return 0, wrapDBError("failed to count inventory items", err)
	}

	return count, nil
}

// TotalValue returns the sum of quantity * price across all items
func (r *itemRepository) TotalValue(ctx context.Context) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(quantity * price), 0) FROM inventory_items`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		r.logger.Error("failed to sum inventory value", zap.Error(err))
		return 0, wrapDBError("failed to sum inventory value", err)
	}

	return total, nil
}

func (r *itemRepository) list(ctx context.Context, query string, args ...any) ([]models.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query inventory items", zap.Error(err))
		return nil, wrapDBError("failed to query inventory items", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	var description sql.NullString

	err := row.Scan(
		&item.ID,
		&item.Name,
		&description,
		&item.Quantity,
		&item.Price,
		&item.Category,
		&item.SKU,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Owner.ID,
		&item.Owner.Name,
		&item.Owner.Email,
		&item.Owner.Role,
	)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	return item, nil
}
