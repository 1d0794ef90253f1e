package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SaleRepository struct {
	DB        *db.Postgres
	Customers CustomerRepository
}

type CreateSaleInput struct {
	CustomerName   string
	CustomerMobile string
	CustomerAddr   string
	IsBorrow       bool
	PaymentStatus  domain.PaymentStatus
	Notes          string
	CreatedBy      int64
	Items          []CreateSaleItem
}

type CreateSaleItem struct {
	ItemID   int64
	Quantity int
	Rate     int64
}

// ErrItemMissing aborts a checkout that references an unknown or deleted
// inventory item.
var ErrItemMissing = errors.New("inventory item not found")

// Create runs the whole checkout as one transaction: customer upsert,
// order number, sale + line items, stock decrement, and the borrow record
// when the sale is flagged as borrow. Any failure rolls the lot back.
func (r SaleRepository) Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	var customerID *int64
	var customer *domain.Customer
	if in.CustomerMobile != "" {
		c, err := r.Customers.UpsertByMobile(ctx, tx, domain.Customer{
			Name:    in.CustomerName,
			Mobile:  in.CustomerMobile,
			Address: in.CustomerAddr,
		})
		if err != nil {
			return nil, err
		}
		customerID = &c.ID
		customer = c
	}

	// count+1 order numbers; duplicates are possible under concurrent
	// checkouts and accepted.
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return nil, err
	}
	orderNumber := fmt.Sprintf("ORD-%05d", count+1)

	var total int64
	for _, it := range in.Items {
		total += int64(it.Quantity) * it.Rate
	}

	status := in.PaymentStatus
	if in.IsBorrow {
		status = domain.PaymentPending
	} else if status == "" {
		status = domain.PaymentPaid
	}

	var saleID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (order_number, customer_id, total_amount, is_borrow, payment_status, notes, client_photo, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,'',$7, now())
		RETURNING id
	`, orderNumber, customerID, total, in.IsBorrow, status, in.Notes, in.CreatedBy).Scan(&saleID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal := int64(it.Quantity) * it.Rate

		// Decrement stock and bump total_sold; no floor is enforced.
		tag, err := tx.Exec(ctx, `
			UPDATE inventory_items
			SET quantity = quantity - $2, total_sold = total_sold + $2, updated_at = now()
			WHERE id=$1 AND deleted_at IS NULL
		`, it.ItemID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrItemMissing
		}

		var itemRowID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO sale_items (sale_id, item_id, item_name, quantity, rate, subtotal)
			VALUES ($1,$2,NULL,$3,$4,$5)
			RETURNING id
		`, saleID, it.ItemID, it.Quantity, it.Rate, subtotal).Scan(&itemRowID)
		if err != nil {
			return nil, err
		}
		itemID := it.ItemID
		items = append(items, domain.SaleItem{
			ID:       itemRowID,
			SaleID:   saleID,
			ItemID:   &itemID,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Subtotal: subtotal,
		})
	}

	if in.IsBorrow {
		var borrowID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO borrow_records (sale_id, borrow_date, due_date, outstanding_amount, is_returned, reminder_dismissed, created_at)
			VALUES ($1,$2,$3,$4,false,false, now())
			RETURNING id
		`, saleID, now, domain.BorrowDueDate(now), total).Scan(&borrowID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.Sale{
		ID:            saleID,
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		Customer:      customer,
		TotalAmount:   total,
		IsBorrow:      in.IsBorrow,
		PaymentStatus: status,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
		Items:         items,
		CreatedAt:     now,
	}, nil
}

// AttachClientPhoto runs outside the checkout transaction; a sale may
// exist without its photo if this write fails.
func (r SaleRepository) AttachClientPhoto(ctx context.Context, saleID int64, url string) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE sales SET client_photo=$2 WHERE id=$1 AND deleted_at IS NULL
	`, saleID, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const saleColumns = `
	s.id, s.order_number, s.customer_id, s.total_amount, s.is_borrow, s.payment_status,
	s.notes, s.client_photo, s.created_by, COALESCE(u.name,''), s.created_at,
	c.id, c.name, c.mobile, c.address`

func (r SaleRepository) List(ctx context.Context, limit int) ([]domain.Sale, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.deleted_at IS NULL
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectSales(ctx, rows)
}

func (r SaleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.deleted_at IS NULL AND s.created_at >= $1 AND s.created_at < $2
		ORDER BY s.created_at DESC, s.id DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectSales(ctx, rows)
}

func (r SaleRepository) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.deleted_at IS NULL AND s.id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sales, err := r.collectSales(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, ErrNotFound
	}
	return &sales[0], nil
}

func (r SaleRepository) collectSales(ctx context.Context, rows pgx.Rows) ([]domain.Sale, error) {
	var sales []domain.Sale
	var ids []int64
	for rows.Next() {
		var s domain.Sale
		var status string
		var custID pgtype.Int8
		var custName, custMobile, custAddr pgtype.Text
		if err := rows.Scan(
			&s.ID, &s.OrderNumber, &s.CustomerID, &s.TotalAmount, &s.IsBorrow, &status,
			&s.Notes, &s.ClientPhoto, &s.CreatedBy, &s.CreatedByName, &s.CreatedAt,
			&custID, &custName, &custMobile, &custAddr,
		); err != nil {
			return nil, err
		}
		s.PaymentStatus = domain.PaymentStatus(status)
		if custID.Valid {
			s.Customer = &domain.Customer{
				ID:      custID.Int64,
				Name:    custName.String,
				Mobile:  custMobile.String,
				Address: custAddr.String,
			}
		}
		ids = append(ids, s.ID)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return sales, nil
	}

	// Live item name when the item still exists, snapshot otherwise.
	itemRows, err := r.DB.Pool.Query(ctx, `
		SELECT si.sale_id, si.id, si.item_id, COALESCE(si.item_name, it.name), si.quantity, si.rate, si.subtotal
		FROM sale_items si
		LEFT JOIN inventory_items it ON it.id = si.item_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	itemsBySale := make(map[int64][]domain.SaleItem)
	for itemRows.Next() {
		var it domain.SaleItem
		var saleID int64
		var name pgtype.Text
		if err := itemRows.Scan(&saleID, &it.ID, &it.ItemID, &name, &it.Quantity, &it.Rate, &it.Subtotal); err != nil {
			return nil, err
		}
		if name.Valid {
			it.ItemName = &name.String
		}
		it.SaleID = saleID
		itemsBySale[saleID] = append(itemsBySale[saleID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
	}

	return sales, nil
}
