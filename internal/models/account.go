package models

import "fmt"

type AccountKind string

const (
	AccountChecking AccountKind = "CHECKING"
	AccountSavings  AccountKind = "SAVINGS"
)

// AccountTerms carries the kind-specific field of an account. The only
// implementations are CheckingTerms and SavingsTerms.
type AccountTerms interface {
	Kind() AccountKind
	isAccountTerms()
}

type CheckingTerms struct {
	Overdraft float64
}

func (CheckingTerms) Kind() AccountKind { return AccountChecking }
func (CheckingTerms) isAccountTerms()   {}

type SavingsTerms struct {
	InterestRate float64
}

func (SavingsTerms) Kind() AccountKind { return AccountSavings }
func (SavingsTerms) isAccountTerms()   {}

// Account is handled as a value: the With* helpers return modified copies and
// every change must be written back through the repository explicitly.
type Account struct {
	ID       string
	Number   string
	Balance  float64
	ClientID string
	Terms    AccountTerms
}

func NewCheckingAccount(number string, balance float64, clientID string, overdraft float64) Account {
	return Account{
		Number:   number,
		Balance:  balance,
		ClientID: clientID,
		Terms:    CheckingTerms{Overdraft: overdraft},
	}
}

func NewSavingsAccount(number string, balance float64, clientID string, interestRate float64) Account {
	return Account{
		Number:   number,
		Balance:  balance,
		ClientID: clientID,
		Terms:    SavingsTerms{InterestRate: interestRate},
	}
}

func (a Account) Kind() AccountKind {
	if a.Terms == nil {
		return ""
	}
	return a.Terms.Kind()
}

func (a Account) WithBalance(balance float64) Account {
	a.Balance = balance
	return a
}

// WithOverdraft returns a copy with the new overdraft limit; ok is false when
// the account is not a checking account.
func (a Account) WithOverdraft(overdraft float64) (Account, bool) {
	if _, ok := a.Terms.(CheckingTerms); !ok {
		return a, false
	}
	a.Terms = CheckingTerms{Overdraft: overdraft}
	return a, true
}

// WithInterestRate returns a copy with the new rate; ok is false when the
// account is not a savings account.
func (a Account) WithInterestRate(rate float64) (Account, bool) {
	if _, ok := a.Terms.(SavingsTerms); !ok {
		return a, false
	}
	a.Terms = SavingsTerms{InterestRate: rate}
	return a, true
}

// KindColumns splits the terms into the two nullable storage columns.
func (a Account) KindColumns() (overdraft, interestRate *float64) {
	switch terms := a.Terms.(type) {
	case CheckingTerms:
		v := terms.Overdraft
		return &v, nil
	case SavingsTerms:
		v := terms.InterestRate
		return nil, &v
	default:
		return nil, nil
	}
}

// TermsFromColumns rebuilds the terms from a stored kind and its column.
func TermsFromColumns(kind string, overdraft, interestRate *float64) (AccountTerms, error) {
	switch AccountKind(kind) {
	case AccountChecking:
		if overdraft == nil {
			return nil, fmt.Errorf("checking account without overdraft")
		}
		return CheckingTerms{Overdraft: *overdraft}, nil
	case AccountSavings:
		if interestRate == nil {
			return nil, fmt.Errorf("savings account without interest rate")
		}
		return SavingsTerms{InterestRate: *interestRate}, nil
	default:
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}
}

type CreateCheckingRequest struct {
	Balance   float64 `json:"balance"`
	ClientID  string  `json:"client_id"`
	Overdraft float64 `json:"overdraft"`
}

type CreateSavingsRequest struct {
	Balance      float64 `json:"balance"`
	ClientID     string  `json:"client_id"`
	InterestRate float64 `json:"interest_rate"`
}

type ValueRequest struct {
	Value float64 `json:"value"`
}

type AccountResponse struct {
	ID           string      `json:"id"`
	Number       string      `json:"number"`
	Balance      float64     `json:"balance"`
	ClientID     string      `json:"client_id"`
	Kind         AccountKind `json:"kind"`
	Overdraft    *float64    `json:"overdraft,omitempty"`
	InterestRate *float64    `json:"interest_rate,omitempty"`
}

func NewAccountResponse(a Account) AccountResponse {
	overdraft, rate := a.KindColumns()
	return AccountResponse{
		ID:           a.ID,
		Number:       a.Number,
		Balance:      a.Balance,
		ClientID:     a.ClientID,
		Kind:         a.Kind(),
		Overdraft:    overdraft,
		InterestRate: rate,
	}
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int               `json:"total"`
}

func NewAccountListResponse(accounts []Account) AccountListResponse {
	resp := AccountListResponse{
		Accounts: make([]AccountResponse, 0, len(accounts)),
		Total:    len(accounts),
	}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, NewAccountResponse(a))
	}
	return resp
}
