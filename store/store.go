// ABOUTME: Store interface for durable node, contract, profile, and placement state
// ABOUTME: Any implementation with transactional single-record updates suffices

package store

import (
	"context"
	"errors"
	"sort"

	"github.com/djmistretta15/Nnemo/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines everything the services need from the storage layer.
// Implementations must persist node capacity updates durably before
// returning success; the ledger relies on that.
type Store interface {
	// Nodes
	CreateNode(ctx context.Context, node *models.Node) error
	GetNode(ctx context.Context, id string) (*models.Node, error)
	ListNodes(ctx context.Context) ([]*models.Node, error)
	UpdateNode(ctx context.Context, node *models.Node) error
	DeleteNode(ctx context.Context, id string) error

	// Contracts
	CreateContract(ctx context.Context, contract *models.Contract) error
	GetContract(ctx context.Context, id string) (*models.Contract, error)
	ListContracts(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error)
	UpdateContract(ctx context.Context, contract *models.Contract) error

	// Model profiles
	CreateProfile(ctx context.Context, profile *models.ModelProfile) error
	GetProfile(ctx context.Context, id string) (*models.ModelProfile, error)
	GetProfileByName(ctx context.Context, name string) (*models.ModelProfile, error)
	ListProfiles(ctx context.Context) ([]*models.ModelProfile, error)
	UpdateProfile(ctx context.Context, profile *models.ModelProfile) error
	DeleteProfile(ctx context.Context, id string) error

	// Placements (request and decision persisted together)
	CreatePlacement(ctx context.Context, req *models.PlacementRequest, decision *models.PlacementDecision) error
	GetPlacement(ctx context.Context, requestID string) (*models.PlacementRequest, *models.PlacementDecision, error)

	// Telemetry history
	AppendMetric(ctx context.Context, metric *models.NodeMetric) error
	ListMetrics(ctx context.Context, nodeID string, limit int) ([]*models.NodeMetric, error)
}

// sortContractsNewestFirst orders listings by creation time descending with
// ID as a stable secondary key.
func sortContractsNewestFirst(contracts []*models.Contract) {
	sort.Slice(contracts, func(i, j int) bool {
		if !contracts[i].CreatedAt.Equal(contracts[j].CreatedAt) {
			return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
		}
		return contracts[i].ID < contracts[j].ID
	})
}
