package models

import (
	"fmt"
	"strings"
	"time"
)

type TransactionKind string

const (
	TransactionDeposit    TransactionKind = "DEPOSIT"
	TransactionWithdrawal TransactionKind = "WITHDRAWAL"
	TransactionTransfer   TransactionKind = "TRANSFER"
)

// TransactionKinds lists every kind in declaration order.
var TransactionKinds = []TransactionKind{
	TransactionDeposit,
	TransactionWithdrawal,
	TransactionTransfer,
}

func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionDeposit, TransactionWithdrawal, TransactionTransfer:
		return true
	default:
		return false
	}
}

func ParseTransactionKind(s string) (TransactionKind, error) {
	kind := TransactionKind(strings.ToUpper(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
	return kind, nil
}

type Transaction struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Amount    float64         `json:"amount"`
	Kind      TransactionKind `json:"kind"`
	Location  string          `json:"location"`
	AccountID string          `json:"account_id"`
}

// Equal compares every field; timestamps are compared as instants.
func (t Transaction) Equal(other Transaction) bool {
	return t.ID == other.ID &&
		t.Timestamp.Equal(other.Timestamp) &&
		t.Amount == other.Amount &&
		t.Kind == other.Kind &&
		t.Location == other.Location &&
		t.AccountID == other.AccountID
}

// TransactionRequest is the body of a posting or a full-record update.
type TransactionRequest struct {
	Timestamp     time.Time `json:"timestamp"`
	Amount        float64   `json:"amount"`
	Kind          string    `json:"kind"`
	Location      string    `json:"location"`
	AccountNumber string    `json:"account_number"`
}

type TransactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	AccountID    string        `json:"account_id,omitempty"`
}
