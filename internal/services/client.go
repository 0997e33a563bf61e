package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bankguard/internal/metrics"
	"bankguard/internal/models"
	"bankguard/internal/repository"
	"bankguard/internal/utils"
	"bankguard/internal/validation"
)

type ClientService struct {
	clients  repository.ClientRepository
	accounts repository.AccountRepository
	metrics  *metrics.Collector
}

// ClientReport bundles the per-client aggregations.
type ClientReport struct {
	Client       models.Client
	AccountCount int
	TotalBalance float64
	MaxAccount   *models.Account
	MinAccount   *models.Account
}

func NewClientService(clients repository.ClientRepository, accounts repository.AccountRepository) *ClientService {
	return &ClientService{
		clients:  clients,
		accounts: accounts,
	}
}

func (s *ClientService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

func (s *ClientService) CreateClient(ctx context.Context, name, email string) (client *models.Client, err error) {
	defer func() { s.metrics.RecordOperation("create_client", outcome(err)) }()

	utils.LogInfo("ClientService", "Creating client %q", name)

	if err := validateClientFields(name, email); err != nil {
		utils.LogWarning("ClientService", "Client rejected: %v", err)
		return nil, err
	}

	client = &models.Client{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		utils.LogError("ClientService", "Failed to create client", err)
		return nil, storageError("creating client", err)
	}

	utils.LogSuccess("ClientService", "Client %s created (%s)", client.ID, client.Name)
	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id, name, email string) (err error) {
	defer func() { s.metrics.RecordOperation("update_client", outcome(err)) }()

	utils.LogInfo("ClientService", "Updating client %s", id)

	if !validation.IsValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if err := validateClientFields(name, email); err != nil {
		utils.LogWarning("ClientService", "Update of client %s rejected: %v", id, err)
		return err
	}
	if _, err := s.loadClient(ctx, id); err != nil {
		return err
	}

	updated := models.Client{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := s.clients.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrClientNotFound, id)
		}
		utils.LogError("ClientService", fmt.Sprintf("Failed to update client %s", id), err)
		return storageError("updating client", err)
	}

	utils.LogSuccess("ClientService", "Client %s updated", id)
	return nil
}

// DeleteClient refuses while the client still owns accounts. The check and
// the delete are separate storage calls.
func (s *ClientService) DeleteClient(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.RecordOperation("delete_client", outcome(err)) }()

	utils.LogInfo("ClientService", "Deleting client %s", id)

	if !validation.IsValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if _, err := s.loadClient(ctx, id); err != nil {
		return err
	}

	accounts, err := s.accounts.FindByClientID(ctx, id)
	if err != nil {
		utils.LogError("ClientService", fmt.Sprintf("Failed to list accounts of client %s", id), err)
		return storageError("listing client accounts", err)
	}
	if len(accounts) > 0 {
		utils.LogWarning("ClientService", "Client %s still owns %d account(s)", id, len(accounts))
		return fmt.Errorf("%w: client %s owns %d account(s)", ErrClientHasAccounts, id, len(accounts))
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrClientNotFound, id)
		}
		utils.LogError("ClientService", fmt.Sprintf("Failed to delete client %s", id), err)
		return storageError("deleting client", err)
	}

	utils.LogSuccess("ClientService", "Client %s deleted", id)
	return nil
}

func (s *ClientService) FindClientByID(ctx context.Context, id string) (*models.Client, bool) {
	if !validation.IsValidID(id) {
		utils.LogWarning("ClientService", "Invalid client id %q", id)
		return nil, false
	}

	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.LogError("ClientService", fmt.Sprintf("Failed to fetch client %s", id), err)
		}
		return nil, false
	}
	return client, true
}

// FindClientsByName matches a case-insensitive fragment; a blank fragment
// matches nothing.
func (s *ClientService) FindClientsByName(ctx context.Context, fragment string) []models.Client {
	if !validation.IsValidString(fragment) {
		utils.LogWarning("ClientService", "Empty name fragment")
		return nil
	}

	clients, err := s.clients.FindByName(ctx, strings.TrimSpace(fragment))
	if err != nil {
		utils.LogError("ClientService", "Failed to search clients", err)
		return nil
	}
	return clients
}

func (s *ClientService) ListClients(ctx context.Context) []models.Client {
	clients, err := s.clients.FindAll(ctx)
	if err != nil {
		utils.LogError("ClientService", "Failed to list clients", err)
		return nil
	}
	return clients
}

func (s *ClientService) AccountCount(ctx context.Context, clientID string) int {
	return len(s.clientAccounts(ctx, clientID))
}

func (s *ClientService) TotalBalance(ctx context.Context, clientID string) float64 {
	return totalBalance(s.clientAccounts(ctx, clientID))
}

func (s *ClientService) MaxBalanceAccount(ctx context.Context, clientID string) (*models.Account, bool) {
	return maxBalance(s.clientAccounts(ctx, clientID))
}

func (s *ClientService) MinBalanceAccount(ctx context.Context, clientID string) (*models.Account, bool) {
	return minBalance(s.clientAccounts(ctx, clientID))
}

func (s *ClientService) ClientReport(ctx context.Context, clientID string) (*ClientReport, error) {
	if !validation.IsValidID(clientID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, clientID)
	}

	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.FindByClientID(ctx, clientID)
	if err != nil {
		utils.LogError("ClientService", fmt.Sprintf("Failed to list accounts of client %s", clientID), err)
		return nil, storageError("listing client accounts", err)
	}

	report := &ClientReport{
		Client:       *client,
		AccountCount: len(accounts),
		TotalBalance: totalBalance(accounts),
	}
	report.MaxAccount, _ = maxBalance(accounts)
	report.MinAccount, _ = minBalance(accounts)
	return report, nil
}

func (s *ClientService) clientAccounts(ctx context.Context, clientID string) []models.Account {
	if !validation.IsValidID(clientID) {
		utils.LogWarning("ClientService", "Invalid client id %q", clientID)
		return nil
	}

	accounts, err := s.accounts.FindByClientID(ctx, clientID)
	if err != nil {
		utils.LogError("ClientService", fmt.Sprintf("Failed to list accounts of client %s", clientID), err)
		return nil
	}
	return accounts
}

func (s *ClientService) loadClient(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.LogWarning("ClientService", "Client %s not found", id)
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
		}
		utils.LogError("ClientService", fmt.Sprintf("Failed to fetch client %s", id), err)
		return nil, storageError("fetching client", err)
	}
	return client, nil
}

func validateClientFields(name, email string) error {
	if !validation.IsValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !validation.IsValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}
