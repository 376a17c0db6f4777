package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Labels used by aggregations when a grouping key is blank.
const (
	UncategorizedLabel = "Uncategorized"
	SelfLabel          = "Self"
	BlankCardLabel     = "—"
)

// DefaultCategories is the suggested category set. It is not enforced:
// Transaction.Category stays free text.
var DefaultCategories = []string{
	"Cartão",
	"Alimentação",
	"Mercado",
	"Transporte",
	"Moradia",
	"Contas",
	"Saúde",
	"Lazer",
	"Educação",
	"Outros",
}

// CardSuggestions seeds the card autocomplete before any purchase exists.
var CardSuggestions = []string{
	"Nubank",
	"Inter",
	"C6",
	"Itaú",
	"Santander",
	"Banco do Brasil",
	"Caixa",
}

type (
	TransactionType string

	// Installment links N sibling transactions created from one purchase.
	// Index ranges 1..Total; every sibling carries the same GroupID.
	Installment struct {
		GroupID string `json:"groupId"`
		Index   int    `json:"index"`
		Total   int    `json:"total"`
	}

	// Transaction is a single income or expense ledger entry. DueDate is the
	// canonical YYYY-MM-DD key used for all month bucketing; Paid is only
	// meaningful for expenses. An empty PersonName on a card purchase means
	// the entry is the owner's own spend, not a third party's debt.
	Transaction struct {
		ID             string          `json:"id"`
		Type           TransactionType `json:"type"`
		Amount         Money           `json:"amount"`
		Category       string          `json:"category"`
		Note           string          `json:"note"`
		DueDate        string          `json:"dueDate"`
		Paid           bool            `json:"paid"`
		Installment    *Installment    `json:"installment,omitempty"`
		IsCardPurchase bool            `json:"isCardPurchase"`
		CardName       string          `json:"cardName"`
		PersonName     string          `json:"personName"`
		RecurringID    string          `json:"recurringId,omitempty"`
		CreatedAt      time.Time       `json:"createdAt"`
	}

	// Person is a saved name used as an autocomplete suggestion source.
	// There is no referential integrity with Transaction.PersonName.
	Person struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// RecurringTemplate is a reusable bill definition materialized into a
	// transaction on demand, at most once per month. Amount is ignored when
	// IsVariable is set; the caller supplies it at application time.
	RecurringTemplate struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Type           TransactionType `json:"type"`
		Amount         Money           `json:"amount"`
		Category       string          `json:"category"`
		DueDay         int             `json:"dueDay"`
		IsCardPurchase bool            `json:"isCardPurchase"`
		CardName       string          `json:"cardName"`
		PersonName     string          `json:"personName"`
		IsVariable     bool            `json:"isVariable"`
		CreatedAt      time.Time       `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrInvalidDueDay  = errors.New("invalid due day")
	ErrEmptyCardName  = errors.New("empty card name for card purchase")
	ErrEmptyName      = errors.New("empty name")
	ErrInvalidDueDate = errors.New("invalid due date")
	ErrAlreadyApplied = errors.New("recurring template already applied this month")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if tx.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseISODate(tx.DueDate); err != nil {
		return ErrInvalidDueDate
	}
	if tx.IsCardPurchase && strings.TrimSpace(tx.CardName) == "" {
		return ErrEmptyCardName
	}
	return nil
}

func (rt RecurringTemplate) Validate() error {
	if strings.TrimSpace(rt.Name) == "" {
		return ErrEmptyName
	}
	if !rt.Type.Valid() {
		return ErrInvalidType
	}
	if !rt.IsVariable && rt.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if rt.DueDay < 1 || rt.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if rt.IsCardPurchase && strings.TrimSpace(rt.CardName) == "" {
		return ErrEmptyCardName
	}
	return nil
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
