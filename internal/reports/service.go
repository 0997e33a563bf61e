// Package reports derives cross-cutting views of the ledger. It reads only
// through the client, account and transaction services.
package reports

import (
	"context"
	"sort"
	"time"

	"bankguard/internal/models"
	"bankguard/internal/services"
	"bankguard/internal/utils"
)

const TopClientsLimit = 5

type Service struct {
	clients      *services.ClientService
	accounts     *services.AccountService
	transactions *services.TransactionService
	now          func() time.Time
}

type ClientBalance struct {
	Client       models.Client
	TotalBalance float64
	AccountCount int
}

type KindStats struct {
	Kind    models.TransactionKind
	Count   int
	Volume  float64
	Average float64
}

// MonthlyReport holds an entry in ByKind only for kinds seen that month.
type MonthlyReport struct {
	Month       models.YearMonth
	ByKind      map[models.TransactionKind]KindStats
	TotalCount  int
	TotalVolume float64
}

// Kinds returns the populated entries in declaration order of the kinds.
func (r MonthlyReport) Kinds() []KindStats {
	var stats []KindStats
	for _, kind := range models.TransactionKinds {
		if s, ok := r.ByKind[kind]; ok {
			stats = append(stats, s)
		}
	}
	return stats
}

type InactiveAccount struct {
	Account   models.Account
	OwnerName string
	// LastActivity is nil when the account has never been used.
	LastActivity *time.Time
	DaysIdle     int
}

func NewService(
	clients *services.ClientService,
	accounts *services.AccountService,
	transactions *services.TransactionService,
) *Service {
	return &Service{
		clients:      clients,
		accounts:     accounts,
		transactions: transactions,
		now:          time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// TopClientsByBalance ranks clients by the sum of their account balances.
// Equal totals keep storage order.
func (s *Service) TopClientsByBalance(ctx context.Context) []ClientBalance {
	utils.LogInfo("ReportService", "Ranking clients by total balance")

	clients := s.clients.ListClients(ctx)
	ranking := make([]ClientBalance, 0, len(clients))
	for _, c := range clients {
		accounts := s.accounts.FindAccountsByClient(ctx, c.ID)
		var total float64
		for _, a := range accounts {
			total += a.Balance
		}
		ranking = append(ranking, ClientBalance{
			Client:       c,
			TotalBalance: total,
			AccountCount: len(accounts),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TotalBalance > ranking[j].TotalBalance
	})
	if len(ranking) > TopClientsLimit {
		ranking = ranking[:TopClientsLimit]
	}
	return ranking
}

func (s *Service) MonthlyReport(ctx context.Context, month models.YearMonth) MonthlyReport {
	utils.LogInfo("ReportService", "Building monthly report for %s", month)

	report := MonthlyReport{
		Month:  month,
		ByKind: make(map[models.TransactionKind]KindStats),
	}
	for _, t := range s.transactions.AllTransactions(ctx) {
		if models.YearMonthOf(t.Timestamp) != month {
			continue
		}
		stats := report.ByKind[t.Kind]
		stats.Kind = t.Kind
		stats.Count++
		stats.Volume += t.Amount
		report.ByKind[t.Kind] = stats

		report.TotalCount++
		report.TotalVolume += t.Amount
	}

	for kind, stats := range report.ByKind {
		stats.Average = stats.Volume / float64(stats.Count)
		report.ByKind[kind] = stats
	}
	return report
}

// InactiveAccounts lists accounts with no transactions, or whose latest
// transaction is more than daysInactive whole days old. The clock is read
// once per call.
func (s *Service) InactiveAccounts(ctx context.Context, daysInactive int) []InactiveAccount {
	if daysInactive < 0 {
		utils.LogWarning("ReportService", "Negative inactivity threshold %d", daysInactive)
		return nil
	}

	now := s.now()
	utils.LogInfo("ReportService", "Looking for accounts idle for more than %d day(s)", daysInactive)

	var inactive []InactiveAccount
	for _, account := range s.accounts.ListAccounts(ctx) {
		entry := InactiveAccount{Account: account}

		if last, ok := latest(s.transactions.TransactionsByAccount(ctx, account.ID)); ok {
			days := int(now.Sub(last) / (24 * time.Hour))
			if days <= daysInactive {
				continue
			}
			entry.LastActivity = &last
			entry.DaysIdle = days
		}

		if owner, ok := s.clients.FindClientByID(ctx, account.ClientID); ok {
			entry.OwnerName = owner.Name
		}
		inactive = append(inactive, entry)
	}
	return inactive
}

// SuspiciousTransactions runs the combined detector over every transaction.
func (s *Service) SuspiciousTransactions(ctx context.Context, criteria services.SuspicionCriteria) []models.Transaction {
	utils.LogInfo("ReportService", "Scanning all transactions (threshold: %.2f, country: %q, window: %d min)",
		criteria.AmountThreshold, criteria.UsualCountry, criteria.MaxMinutesBetween)

	return s.transactions.Suspicious(s.transactions.AllTransactions(ctx), criteria)
}

func latest(txs []models.Transaction) (time.Time, bool) {
	if len(txs) == 0 {
		return time.Time{}, false
	}
	last := txs[0].Timestamp
	for _, t := range txs[1:] {
		if t.Timestamp.After(last) {
			last = t.Timestamp
		}
	}
	return last, true
}
