package artifact

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store is where mined artifacts end up. The miners only need to look an
// artifact up by identity, create it when missing and attach instances.
type Store interface {
	FindOrCreate(ctx context.Context, a model.Artifact) (model.Artifact, error)
	AddInstance(ctx context.Context, artifactID string, inst model.Instance) error
}

// MemoryStore keeps everything in process. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.Mutex
	artifacts map[model.ArtifactKey]model.Artifact
	instances map[string][]model.Instance
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[model.ArtifactKey]model.Artifact),
		instances: make(map[string][]model.Instance),
	}
}

func (s *MemoryStore) FindOrCreate(ctx context.Context, a model.Artifact) (model.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.artifacts[a.Key()]; ok {
		return existing, nil
	}
	a.ID = fmt.Sprintf("%v", len(s.artifacts)+1)
	s.artifacts[a.Key()] = a
	return a, nil
}

func (s *MemoryStore) AddInstance(ctx context.Context, artifactID string, inst model.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[artifactID] = append(s.instances[artifactID], inst)
	return nil
}

func (s *MemoryStore) Artifacts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}

func (s *MemoryStore) Instances(artifactID string) []model.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Instance(nil), s.instances[artifactID]...)
}

// Persist writes a collection into store, artifact by artifact, and stops at
// the first failure.
func Persist(ctx context.Context, store Store, c Collection) error {
	for _, m := range c.Sorted() {
		a, err := store.FindOrCreate(ctx, m.Artifact)
		if err != nil {
			return errors.Wrapf(err, "could not store artifact %v", m.Artifact.Key())
		}
		for _, inst := range m.Instances {
			if err := store.AddInstance(ctx, a.ID, inst); err != nil {
				return errors.Wrapf(err, "could not store instance of %v", m.Artifact.Key())
			}
		}
		logrus.WithFields(logrus.Fields{
			"artifact":  m.Artifact.Key().String(),
			"instances": len(m.Instances),
		}).Debug("persisted artifact")
	}
	return nil
}
