package repository

import (
	"context"
	"errors"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository struct {
	DB *db.Postgres
}

const itemColumns = `id, name, unit, category, purchase_rate, selling_rate, quantity, total_purchased, total_sold, low_stock_threshold, created_at, updated_at`

func (r InventoryRepository) List(ctx context.Context, limit int) ([]domain.InventoryItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r InventoryRepository) ListLowStock(ctx context.Context, limit int) ([]domain.InventoryItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE deleted_at IS NULL AND quantity <= low_stock_threshold
		ORDER BY quantity ASC, name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r InventoryRepository) Get(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

type CreateItemInput struct {
	Name              string
	Unit              string
	Category          string
	PurchaseRate      int64
	SellingRate       int64
	Quantity          int
	LowStockThreshold int
}

func (r InventoryRepository) Create(ctx context.Context, in CreateItemInput) (*domain.InventoryItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO inventory_items
		(name, unit, category, purchase_rate, selling_rate, quantity, total_purchased, total_sold, low_stock_threshold, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6,0,$7, now(), now())
		RETURNING `+itemColumns+`
	`, in.Name, in.Unit, in.Category, in.PurchaseRate, in.SellingRate, in.Quantity, in.LowStockThreshold)
	return scanItem(row)
}

func (r InventoryRepository) Update(ctx context.Context, id int64, in CreateItemInput) (*domain.InventoryItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET name=$2, unit=$3, category=$4, purchase_rate=$5, selling_rate=$6, quantity=$7, low_stock_threshold=$8, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+itemColumns+`
	`, id, in.Name, in.Unit, in.Category, in.PurchaseRate, in.SellingRate, in.Quantity, in.LowStockThreshold)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

// Delete removes an item while keeping sale history readable: sale items
// snapshot the item name and drop the FK, the item's purchases go away,
// then the item itself is soft-deleted.
func (r InventoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var name string
	err = tx.QueryRow(ctx, `
		SELECT name FROM inventory_items
		WHERE id=$1 AND deleted_at IS NULL
		FOR UPDATE
	`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE sale_items
		SET item_name = COALESCE(item_name, $2), item_id = NULL
		WHERE item_id = $1
	`, id, name); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE item_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory_items SET deleted_at = now(), updated_at = now() WHERE id = $1
	`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type RestockInput struct {
	Quantity int
	Rate     int64
	Supplier string
	Note     string
}

// Restock records a purchase and bumps quantity and total_purchased in one
// transaction.
func (r InventoryRepository) Restock(ctx context.Context, itemID int64, in RestockInput) (*domain.Purchase, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE inventory_items
		SET quantity = quantity + $2, total_purchased = total_purchased + $2, updated_at = now()
		WHERE id=$1 AND deleted_at IS NULL
	`, itemID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	var p domain.Purchase
	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (item_id, quantity, rate, supplier, note, created_at)
		VALUES ($1,$2,$3,$4,$5, now())
		RETURNING id, item_id, quantity, rate, supplier, note, created_at
	`, itemID, in.Quantity, in.Rate, in.Supplier, in.Note).Scan(
		&p.ID, &p.ItemID, &p.Quantity, &p.Rate, &p.Supplier, &p.Note, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r InventoryRepository) ListPurchases(ctx context.Context, itemID int64, limit int) ([]domain.Purchase, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, item_id, quantity, rate, supplier, note, created_at
		FROM purchases
		WHERE item_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.ItemID, &p.Quantity, &p.Rate, &p.Supplier, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanItem(row interface {
	Scan(dest ...any) error
}) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	if err := row.Scan(
		&it.ID, &it.Name, &it.Unit, &it.Category, &it.PurchaseRate, &it.SellingRate,
		&it.Quantity, &it.TotalPurchased, &it.TotalSold, &it.LowStockThreshold,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}
