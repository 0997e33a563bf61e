// Package memory implements the ledger repositories in process memory.
// Iteration order is insertion order.
package memory

import (
	"bankguard/internal/repository"
)

var (
	_ repository.ClientRepository      = (*ClientRepository)(nil)
	_ repository.AccountRepository     = (*AccountRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)

// removeID deletes id from an ordered id list.
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
