package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank or online account as returned by GET /api/accounts.
type Account struct {
	ID              int64
	Name            string
	Active          bool
	Balance         decimal.Decimal
	BalanceForecast decimal.Decimal
	Iban            string
	Holder          string
	BankCode        string
	AccountNr       string
	BankName        string
	BankType        string
	CreateDate      time.Time
	LastUpdate      time.Time
}

// Category labels transactions; Hex is the display colour.
type Category struct {
	ID               int64
	Name             string
	Hex              string
	Active           bool
	CreateDate       time.Time
	LastUpdate       time.Time
	TransactionCount int
}

// CategoryInput is the body of POST /api/categories/create.
type CategoryInput struct {
	ID   int64
	Name string
	Hex  string
}

// Transaction moves an amount between accounts. Dates arrive preformatted.
type Transaction struct {
	ID              int64
	Name            string
	Active          bool
	TransactionDate string
	CreateDate      string
	LastUpdate      string
	Amount          decimal.Decimal
	FromAccount     string
	ToAccount       string
	TransactionType string
	User            string
}

// RecordRef is the body of the delete endpoints.
type RecordRef struct {
	ID int64
}

// Overview bundles the three list endpoints.
type Overview struct {
	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
}
