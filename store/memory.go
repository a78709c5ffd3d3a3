// ABOUTME: In-memory Store implementation for tests and single-process dev mode
// ABOUTME: Copies records on the way in and out so callers never share pointers

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/djmistretta15/Nnemo/models"
)

// MemoryStore keeps all state in process memory behind one RWMutex.
type MemoryStore struct {
	mu         sync.RWMutex
	nodes      map[string]models.Node
	contracts  map[string]models.Contract
	profiles   map[string]models.ModelProfile
	placements map[string]placementPair
	metrics    map[string][]models.NodeMetric
}

type placementPair struct {
	request  models.PlacementRequest
	decision models.PlacementDecision
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:      make(map[string]models.Node),
		contracts:  make(map[string]models.Contract),
		profiles:   make(map[string]models.ModelProfile),
		placements: make(map[string]placementPair),
		metrics:    make(map[string][]models.NodeMetric),
	}
}

func (s *MemoryStore) CreateNode(ctx context.Context, node *models.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node.ID] = *node
	return nil
}

func (s *MemoryStore) GetNode(ctx context.Context, id string) (*models.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &node, nil
}

func (s *MemoryStore) ListNodes(ctx context.Context) ([]*models.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := make([]*models.Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		n := node
		nodes = append(nodes, &n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (s *MemoryStore) UpdateNode(ctx context.Context, node *models.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[node.ID]; !ok {
		return ErrNotFound
	}
	s.nodes[node.ID] = *node
	return nil
}

func (s *MemoryStore) DeleteNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return ErrNotFound
	}
	delete(s.nodes, id)
	return nil
}

func (s *MemoryStore) CreateContract(ctx context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *MemoryStore) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &contract, nil
}

func (s *MemoryStore) ListContracts(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Contract, 0)
	for _, contract := range s.contracts {
		if filter.ClientID != "" && contract.ClientID != filter.ClientID {
			continue
		}
		if filter.NodeID != "" && contract.NodeID != filter.NodeID {
			continue
		}
		if filter.Status != "" && contract.Status != filter.Status {
			continue
		}
		c := contract
		matched = append(matched, &c)
	}

	sortContractsNewestFirst(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*models.Contract{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) UpdateContract(ctx context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; !ok {
		return ErrNotFound
	}
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *MemoryStore) CreateProfile(ctx context.Context, profile *models.ModelProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id string) (*models.ModelProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (s *MemoryStore) GetProfileByName(ctx context.Context, name string) (*models.ModelProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.Name == name {
			p := profile
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListProfiles(ctx context.Context) ([]*models.ModelProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]*models.ModelProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		p := profile
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, profile *models.ModelProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *MemoryStore) DeleteProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *MemoryStore) CreatePlacement(ctx context.Context, req *models.PlacementRequest, decision *models.PlacementDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements[req.ID] = placementPair{request: *req, decision: *decision}
	return nil
}

func (s *MemoryStore) GetPlacement(ctx context.Context, requestID string) (*models.PlacementRequest, *models.PlacementDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pair, ok := s.placements[requestID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	req, decision := pair.request, pair.decision
	return &req, &decision, nil
}

func (s *MemoryStore) AppendMetric(ctx context.Context, metric *models.NodeMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[metric.NodeID] = append(s.metrics[metric.NodeID], *metric)
	return nil
}

func (s *MemoryStore) ListMetrics(ctx context.Context, nodeID string, limit int) ([]*models.NodeMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.metrics[nodeID]

	// Newest first
	out := make([]*models.NodeMetric, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		out = append(out, &m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
