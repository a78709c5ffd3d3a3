// ABOUTME: etcd-backed Store keeping records as JSON values under key prefixes
// ABOUTME: Schema: /mnemo/nodes/<id>, /mnemo/contracts/<id>, /mnemo/profiles/<id>, ...

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/djmistretta15/Nnemo/models"
)

const (
	nodeKeyPrefix      = "/mnemo/nodes/"
	contractKeyPrefix  = "/mnemo/contracts/"
	profileKeyPrefix   = "/mnemo/profiles/"
	placementKeyPrefix = "/mnemo/placements/"
	metricKeyPrefix    = "/mnemo/metrics/"
)

// EtcdStore implements Store on top of an etcd cluster.
type EtcdStore struct {
	client *clientv3.Client
}

// NewEtcdStore connects to etcd at the given endpoints.
func NewEtcdStore(endpoints []string, dialTimeout time.Duration) (*EtcdStore, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to etcd: %w", err)
	}
	return &EtcdStore{client: cli}, nil
}

// Close releases the underlying etcd connection.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}

func (s *EtcdStore) CreateNode(ctx context.Context, node *models.Node) error {
	return s.putValue(ctx, nodeKeyPrefix+node.ID, node)
}

func (s *EtcdStore) GetNode(ctx context.Context, id string) (*models.Node, error) {
	var node models.Node
	if err := s.getValue(ctx, nodeKeyPrefix+id, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *EtcdStore) ListNodes(ctx context.Context) ([]*models.Node, error) {
	resp, err := s.client.Get(ctx, nodeKeyPrefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, err
	}
	nodes := make([]*models.Node, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var node models.Node
		if err := json.Unmarshal(kv.Value, &node); err != nil {
			slog.Warn("Skipping undecodable node record", "key", string(kv.Key), "error", err)
			continue
		}
		nodes = append(nodes, &node)
	}
	return nodes, nil
}

func (s *EtcdStore) UpdateNode(ctx context.Context, node *models.Node) error {
	key := nodeKeyPrefix + node.ID
	if err := s.mustExist(ctx, key); err != nil {
		return err
	}
	return s.putValue(ctx, key, node)
}

func (s *EtcdStore) DeleteNode(ctx context.Context, id string) error {
	resp, err := s.client.Delete(ctx, nodeKeyPrefix+id)
	if err != nil {
		return err
	}
	if resp.Deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EtcdStore) CreateContract(ctx context.Context, contract *models.Contract) error {
	return s.putValue(ctx, contractKeyPrefix+contract.ID, contract)
}

func (s *EtcdStore) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	if err := s.getValue(ctx, contractKeyPrefix+id, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (s *EtcdStore) ListContracts(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error) {
	resp, err := s.client.Get(ctx, contractKeyPrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	matched := make([]*models.Contract, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var contract models.Contract
		if err := json.Unmarshal(kv.Value, &contract); err != nil {
			slog.Warn("Skipping undecodable contract record", "key", string(kv.Key), "error", err)
			continue
		}
		if filter.ClientID != "" && contract.ClientID != filter.ClientID {
			continue
		}
		if filter.NodeID != "" && contract.NodeID != filter.NodeID {
			continue
		}
		if filter.Status != "" && contract.Status != filter.Status {
			continue
		}
		matched = append(matched, &contract)
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

func (s *EtcdStore) UpdateContract(ctx context.Context, contract *models.Contract) error {
	key := contractKeyPrefix + contract.ID
	if err := s.mustExist(ctx, key); err != nil {
		return err
	}
	return s.putValue(ctx, key, contract)
}

func (s *EtcdStore) CreateProfile(ctx context.Context, profile *models.ModelProfile) error {
	return s.putValue(ctx, profileKeyPrefix+profile.ID, profile)
}

func (s *EtcdStore) GetProfile(ctx context.Context, id string) (*models.ModelProfile, error) {
	var profile models.ModelProfile
	if err := s.getValue(ctx, profileKeyPrefix+id, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *EtcdStore) GetProfileByName(ctx context.Context, name string) (*models.ModelProfile, error) {
	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if profile.Name == name {
			return profile, nil
		}
	}
	return nil, ErrNotFound
}

func (s *EtcdStore) ListProfiles(ctx context.Context) ([]*models.ModelProfile, error) {
	resp, err := s.client.Get(ctx, profileKeyPrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	profiles := make([]*models.ModelProfile, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var profile models.ModelProfile
		if err := json.Unmarshal(kv.Value, &profile); err != nil {
			slog.Warn("Skipping undecodable profile record", "key", string(kv.Key), "error", err)
			continue
		}
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

func (s *EtcdStore) UpdateProfile(ctx context.Context, profile *models.ModelProfile) error {
	key := profileKeyPrefix + profile.ID
	if err := s.mustExist(ctx, key); err != nil {
		return err
	}
	return s.putValue(ctx, key, profile)
}

func (s *EtcdStore) DeleteProfile(ctx context.Context, id string) error {
	resp, err := s.client.Delete(ctx, profileKeyPrefix+id)
	if err != nil {
		return err
	}
	if resp.Deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// placementRecord stores a request and its decision in one value so the
// one-to-one mapping can never be half-written.
type placementRecord struct {
	Request  models.PlacementRequest  `json:"request"`
	Decision models.PlacementDecision `json:"decision"`
}

func (s *EtcdStore) CreatePlacement(ctx context.Context, req *models.PlacementRequest, decision *models.PlacementDecision) error {
	return s.putValue(ctx, placementKeyPrefix+req.ID, placementRecord{Request: *req, Decision: *decision})
}

func (s *EtcdStore) GetPlacement(ctx context.Context, requestID string) (*models.PlacementRequest, *models.PlacementDecision, error) {
	var record placementRecord
	if err := s.getValue(ctx, placementKeyPrefix+requestID, &record); err != nil {
		return nil, nil, err
	}
	return &record.Request, &record.Decision, nil
}

func (s *EtcdStore) AppendMetric(ctx context.Context, metric *models.NodeMetric) error {
	key := fmt.Sprintf("%s%s/%d", metricKeyPrefix, metric.NodeID, metric.Timestamp.UnixNano())
	return s.putValue(ctx, key, metric)
}

func (s *EtcdStore) ListMetrics(ctx context.Context, nodeID string, limit int) ([]*models.NodeMetric, error) {
	opts := []clientv3.OpOption{
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortDescend),
	}
	if limit > 0 {
		opts = append(opts, clientv3.WithLimit(int64(limit)))
	}
	resp, err := s.client.Get(ctx, metricKeyPrefix+nodeID+"/", opts...)
	if err != nil {
		return nil, err
	}
	metrics := make([]*models.NodeMetric, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var metric models.NodeMetric
		if err := json.Unmarshal(kv.Value, &metric); err != nil {
			slog.Warn("Skipping undecodable metric record", "key", string(kv.Key), "error", err)
			continue
		}
		metrics = append(metrics, &metric)
	}
	return metrics, nil
}

// putValue wraps the shared JSON marshal + Put path.
func (s *EtcdStore) putValue(ctx context.Context, key string, val interface{}) error {
	bytes, err := json.Marshal(val)
	if err != nil {
		return err
	}
	_, err = s.client.Put(ctx, key, string(bytes))
	return err
}

func (s *EtcdStore) getValue(ctx context.Context, key string, out interface{}) error {
	resp, err := s.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(resp.Kvs) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(resp.Kvs[0].Value, out)
}

func (s *EtcdStore) mustExist(ctx context.Context, key string) error {
	resp, err := s.client.Get(ctx, key, clientv3.WithCountOnly())
	if err != nil {
		return err
	}
	if resp.Count == 0 {
		return ErrNotFound
	}
	return nil
}
