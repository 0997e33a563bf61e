package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"bankguard/internal/models"
	"bankguard/internal/repository"
)

type ClientRepository struct {
	mu      sync.RWMutex
	clients map[string]models.Client
	order   []string
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{
		clients: make(map[string]models.Client),
	}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client.ID = uuid.New().String()
	r.clients[client.ID] = *client
	r.order = append(r.order, client.ID)
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, client models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.ID]; !exists {
		return fmt.Errorf("%w: client %s", repository.ErrNotFound, client.ID)
	}
	r.clients[client.ID] = client
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[id]; !exists {
		return fmt.Errorf("%w: client %s", repository.ErrNotFound, id)
	}
	delete(r.clients, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[id]
	if !exists {
		return nil, fmt.Errorf("%w: client %s", repository.ErrNotFound, id)
	}
	return &client, nil
}

func (r *ClientRepository) FindByName(ctx context.Context, fragment string) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(fragment)
	var result []models.Client
	for _, id := range r.order {
		client := r.clients[id]
		if strings.Contains(strings.ToLower(client.Name), needle) {
			result = append(result, client)
		}
	}
	return result, nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Client, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.clients[id])
	}
	return result, nil
}
