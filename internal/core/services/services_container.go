package services

import (
	"log/slog"

	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	assistant portssvc.AssistantClient,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The price feed comes first since the ledger sizes loans against it.
	container.Price = NewPriceService(cfg.PriceTickInterval, nil, logger)

	container.User = NewUserService(repos.UserRepo)
	container.Ledger = NewLedgerService(repos.UserRepo, repos.TransactionRepo, container.Price, logger)
	container.Assistant = NewAssistantService(assistant, repos.UserRepo, repos.TransactionRepo, logger)
	container.Token = NewTokenService(cfg, repos.UserRepo)

	return container
}
