package domain

import "time"

// Enumerations
const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"

	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"

	SalaryPending SalaryStatus = "PENDING"
	SalaryPaid    SalaryStatus = "PAID"

	// ExpenseCategoryInventory marks spend that counts as inventory loss
	// in the monthly report.
	ExpenseCategoryInventory = "INVENTORY"
)

type UserRole string
type PaymentStatus string
type SalaryStatus string

type User struct {
	ID           int64
	Name         string
	Email        string
	Role         UserRole
	Phone        string
	Address      string
	Avatar       string
	Salary       int64
	IsGoogle     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Customer is deduplicated by mobile number: checkout upserts on it.
type Customer struct {
	ID        int64
	Name      string
	Mobile    string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type InventoryItem struct {
	ID                int64
	Name              string
	Unit              string
	Category          string
	PurchaseRate      int64
	SellingRate       int64
	Quantity          int
	TotalPurchased    int
	TotalSold         int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// LowStock is a view concern only; writes never enforce a floor.
func (it InventoryItem) LowStock() bool {
	return it.Quantity <= it.LowStockThreshold
}

type Purchase struct {
	ID        int64
	ItemID    int64
	Quantity  int
	Rate      int64
	Supplier  string
	Note      string
	CreatedAt time.Time
}

type Sale struct {
	ID            int64
	OrderNumber   string
	CustomerID    *int64
	Customer      *Customer
	TotalAmount   int64
	IsBorrow      bool
	PaymentStatus PaymentStatus
	Notes         string
	ClientPhoto   string
	CreatedBy     int64
	CreatedByName string
	Items         []SaleItem
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// SaleItem keeps ItemName as a snapshot so history stays readable after
// the inventory item is deleted; it is null while the item still exists.
type SaleItem struct {
	ID       int64
	SaleID   int64
	ItemID   *int64
	ItemName *string
	Quantity int
	Rate     int64
	Subtotal int64
}

type BorrowRecord struct {
	ID                int64
	SaleID            int64
	BorrowDate        time.Time
	DueDate           time.Time
	OutstandingAmount int64
	IsReturned        bool
	ReminderDismissed bool
	DismissedBy       *int64
	DismissedAt       *time.Time
	ReturnedAt        *time.Time
	CreatedAt         time.Time
}

// Expense entries are immutable once written.
type Expense struct {
	ID           int64
	Description  string
	Amount       int64
	Category     string
	ExpenseDate  time.Time
	ReceiptPhoto string
	CreatedBy    int64
	CreatedAt    time.Time
}

type SalaryPayment struct {
	ID        int64
	UserID    int64
	UserName  string
	Amount    int64
	Month     int
	Year      int
	Status    SalaryStatus
	Notes     string
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
