package services

import (
	"sort"
	"strings"
	"time"

	"bankguard/internal/models"
	"bankguard/internal/validation"
)

const (
	HeuristicHighAmount      = "high_amount"
	HeuristicUnusualLocation = "unusual_location"
	HeuristicHighFrequency   = "high_frequency"
)

// ReportHighAmountThreshold is the fixed threshold used by TransactionReport.
const ReportHighAmountThreshold = 10000.0

// SuspicionCriteria parameterizes the three heuristics.
type SuspicionCriteria struct {
	AmountThreshold   float64
	UsualCountry      string
	MaxMinutesBetween int64
}

func FilterByAmount(txs []models.Transaction, minAmount, maxAmount float64) []models.Transaction {
	return filter(txs, func(t models.Transaction) bool {
		return t.Amount >= minAmount && t.Amount <= maxAmount
	})
}

// FilterByKind returns txs unchanged for the empty kind.
func FilterByKind(txs []models.Transaction, kind models.TransactionKind) []models.Transaction {
	if kind == "" {
		return txs
	}
	return filter(txs, func(t models.Transaction) bool {
		return t.Kind == kind
	})
}

// FilterByDateRange keeps transactions with start <= timestamp <= end.
func FilterByDateRange(txs []models.Transaction, start, end time.Time) []models.Transaction {
	return filter(txs, func(t models.Transaction) bool {
		return !t.Timestamp.Before(start) && !t.Timestamp.After(end)
	})
}

// FilterByLocation returns txs unchanged for a blank location.
func FilterByLocation(txs []models.Transaction, location string) []models.Transaction {
	if !validation.IsValidString(location) {
		return txs
	}
	needle := strings.ToLower(location)
	return filter(txs, func(t models.Transaction) bool {
		return strings.Contains(strings.ToLower(t.Location), needle)
	})
}

func GroupByKind(txs []models.Transaction) map[models.TransactionKind][]models.Transaction {
	return group(txs, func(t models.Transaction) models.TransactionKind { return t.Kind })
}

func GroupByMonth(txs []models.Transaction) map[models.YearMonth][]models.Transaction {
	return group(txs, func(t models.Transaction) models.YearMonth { return models.YearMonthOf(t.Timestamp) })
}

func GroupByDay(txs []models.Transaction) map[models.Date][]models.Transaction {
	return group(txs, func(t models.Transaction) models.Date { return models.DateOf(t.Timestamp) })
}

// GroupByLocation groups on the exact location string.
func GroupByLocation(txs []models.Transaction) map[string][]models.Transaction {
	return group(txs, func(t models.Transaction) string { return t.Location })
}

func TotalAmount(txs []models.Transaction) float64 {
	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	return total
}

// AverageAmount reports false for an empty list.
func AverageAmount(txs []models.Transaction) (float64, bool) {
	if len(txs) == 0 {
		return 0, false
	}
	return TotalAmount(txs) / float64(len(txs)), true
}

// DetectHighAmount returns transactions strictly above threshold, largest
// first.
func DetectHighAmount(txs []models.Transaction, threshold float64) []models.Transaction {
	flagged := filter(txs, func(t models.Transaction) bool {
		return t.Amount > threshold
	})
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Amount > flagged[j].Amount
	})
	return flagged
}

// DetectUnusualLocation flags locations that do not mention usualCountry. A
// blank country flags nothing.
func DetectUnusualLocation(txs []models.Transaction, usualCountry string) []models.Transaction {
	if !validation.IsValidString(usualCountry) {
		return nil
	}
	needle := strings.ToLower(usualCountry)
	return filter(txs, func(t models.Transaction) bool {
		return !strings.Contains(strings.ToLower(t.Location), needle)
	})
}

// DetectHighFrequency sorts by time and flags both members of every adjacent
// pair at most maxMinutes whole minutes apart. Only neighbours are compared.
func DetectHighFrequency(txs []models.Transaction, maxMinutes int64) []models.Transaction {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var flagged []models.Transaction
	seen := make(map[txKey]bool)
	add := func(t models.Transaction) {
		if k := keyOf(t); !seen[k] {
			seen[k] = true
			flagged = append(flagged, t)
		}
	}

	for i := 0; i+1 < len(sorted); i++ {
		current, next := sorted[i], sorted[i+1]
		gap := int64(next.Timestamp.Sub(current.Timestamp) / time.Minute)
		if gap <= maxMinutes {
			add(current)
			add(next)
		}
	}
	return flagged
}

// DetectSuspicious is the union of the three heuristics, without duplicates,
// newest first.
func DetectSuspicious(txs []models.Transaction, criteria SuspicionCriteria) []models.Transaction {
	return combine(txs,
		DetectHighAmount(txs, criteria.AmountThreshold),
		DetectUnusualLocation(txs, criteria.UsualCountry),
		DetectHighFrequency(txs, criteria.MaxMinutesBetween),
	)
}

func combine(txs []models.Transaction, flagged ...[]models.Transaction) []models.Transaction {
	members := make(map[txKey]bool)
	for _, list := range flagged {
		for _, t := range list {
			members[keyOf(t)] = true
		}
	}

	var result []models.Transaction
	for _, t := range txs {
		k := keyOf(t)
		if members[k] {
			delete(members, k)
			result = append(result, t)
		}
	}
	sortNewestFirst(result)
	return result
}

// txKey gives value equality a comparable form; time.Time itself compares
// its location pointer.
type txKey struct {
	id        string
	unixNano  int64
	amount    float64
	kind      models.TransactionKind
	location  string
	accountID string
}

func keyOf(t models.Transaction) txKey {
	return txKey{
		id:        t.ID,
		unixNano:  t.Timestamp.UnixNano(),
		amount:    t.Amount,
		kind:      t.Kind,
		location:  t.Location,
		accountID: t.AccountID,
	}
}

func sortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}

func filter(txs []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	var result []models.Transaction
	for _, t := range txs {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

func group[K comparable](txs []models.Transaction, key func(models.Transaction) K) map[K][]models.Transaction {
	groups := make(map[K][]models.Transaction)
	for _, t := range txs {
		k := key(t)
		groups[k] = append(groups[k], t)
	}
	return groups
}
