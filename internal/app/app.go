// Package app wires storage, services and the HTTP router from a Config. Both
// binaries build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valyala/fasthttp"

	"bankguard/internal/cache"
	"bankguard/internal/config"
	"bankguard/internal/handlers"
	"bankguard/internal/metrics"
	"bankguard/internal/reports"
	"bankguard/internal/repository"
	"bankguard/internal/repository/memory"
	"bankguard/internal/repository/postgres"
	"bankguard/internal/services"
	"bankguard/internal/utils"
	"bankguard/migrations"
)

type App struct {
	Config  *config.Config
	Metrics *metrics.Collector

	Clients      *services.ClientService
	Accounts     *services.AccountService
	Transactions *services.TransactionService
	Reports      *reports.Service

	pool     *pgxpool.Pool
	sequence *cache.RedisSequence
}

type stores struct {
	clients      repository.ClientRepository
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

// New connects to the configured storage, applies migrations when running on
// Postgres and switches account numbering to Redis when REDIS_ADDR is set.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics.NewCollector(),
	}

	st, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	a.Clients = services.NewClientService(st.clients, st.accounts)
	a.Clients.SetMetrics(a.Metrics)
	a.Accounts = services.NewAccountService(st.accounts, st.clients, st.transactions)
	a.Accounts.SetMetrics(a.Metrics)
	a.Transactions = services.NewTransactionService(st.transactions, st.accounts)
	a.Transactions.SetMetrics(a.Metrics)
	a.Reports = reports.NewService(a.Clients, a.Accounts, a.Transactions)

	if cfg.RedisAddr != "" {
		if err := a.useRedisSequence(ctx, st.accounts); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) openStorage(ctx context.Context) (stores, error) {
	if a.Config.Storage == config.StorageMemory {
		utils.LogWarning("App", "Using in-memory storage, data is lost on exit")
		accounts := memory.NewAccountRepository()
		return stores{
			clients:      memory.NewClientRepository(),
			accounts:     accounts,
			transactions: memory.NewTransactionRepository(accounts),
		}, nil
	}

	pool, err := pgxpool.New(ctx, a.Config.DBURL)
	if err != nil {
		return stores{}, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("connecting to database: %w", err)
	}
	if err := migrations.Up(pool); err != nil {
		pool.Close()
		return stores{}, err
	}
	utils.LogSuccess("App", "Database ready, migrations applied")

	a.pool = pool
	return stores{
		clients:      postgres.NewClientRepository(pool),
		accounts:     postgres.NewAccountRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
	}, nil
}

func (a *App) useRedisSequence(ctx context.Context, accounts repository.AccountRepository) error {
	seq := cache.NewRedisSequence(cache.NewRedisClient(a.Config.RedisAddr), accounts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := seq.Ping(pingCtx); err != nil {
		seq.Close()
		return fmt.Errorf("connecting to redis at %s: %w", a.Config.RedisAddr, err)
	}

	a.sequence = seq
	a.Accounts.SetSequence(seq)
	utils.LogSuccess("App", "Account numbers allocated from Redis at %s", a.Config.RedisAddr)
	return nil
}

// Handler returns the HTTP entry point with logging and /metrics attached.
func (a *App) Handler() fasthttp.RequestHandler {
	criteria := a.Config.Criteria()
	return handlers.NewRouter(handlers.Handlers{
		Clients:      handlers.NewClientHandler(a.Clients, a.Accounts, a.Transactions),
		Accounts:     handlers.NewAccountHandler(a.Accounts, a.Transactions, criteria),
		Transactions: handlers.NewTransactionHandler(a.Transactions),
		Reports:      handlers.NewReportHandler(a.Reports, a.Accounts, criteria, a.Config.InactiveDays),
	}, a.Metrics)
}

func (a *App) Close() {
	if a.sequence != nil {
		if err := a.sequence.Close(); err != nil {
			utils.LogError("App", "Failed to close redis client", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
