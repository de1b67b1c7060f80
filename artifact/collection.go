package artifact

import (
	"sort"

	"github.com/jsphweid/motifdex/model"
)

// Mined is one artifact with every place it was found.
type Mined struct {
	Artifact  model.Artifact
	Instances []model.Instance

	seen map[instanceKey]bool
}

// Collection is keyed by canonical value from the start so two artifacts that
// canonicalize alike always share one entry.
type Collection map[model.ArtifactKey]*Mined

type instanceKey struct {
	songID  uint32
	version int
	voice   int
	start   int
	end     int
}

func keyOf(i model.Instance) instanceKey {
	return instanceKey{i.SongID, i.Version, i.Voice, i.StartTick, i.EndTick}
}

// Add files an instance under the artifact. The instance is rewritten to point
// at the artifact and an instance already present is ignored.
func (c Collection) Add(a model.Artifact, inst model.Instance) {
	key := a.Key()
	m, ok := c[key]
	if !ok {
		m = &Mined{Artifact: a}
		c[key] = m
	}
	if m.seen == nil {
		m.seen = make(map[instanceKey]bool)
		for _, existing := range m.Instances {
			m.seen[keyOf(existing)] = true
		}
	}
	if m.seen[keyOf(inst)] {
		return
	}
	inst.Artifact = key
	m.seen[keyOf(inst)] = true
	m.Instances = append(m.Instances, inst)
}

// Merge folds other into c.
func (c Collection) Merge(other Collection) {
	for _, m := range other.Sorted() {
		for _, inst := range m.Instances {
			c.Add(m.Artifact, inst)
		}
	}
}

// Prune drops artifacts with fewer than minInstances instances.
func (c Collection) Prune(minInstances int) {
	for k, m := range c {
		if len(m.Instances) < minInstances {
			delete(c, k)
		}
	}
}

func (c Collection) InstanceCount() int {
	var res int
	for _, m := range c {
		res += len(m.Instances)
	}
	return res
}

// Sorted returns every entry by descending instance count, then type and
// value, with instances ordered by voice and start tick.
func (c Collection) Sorted() []*Mined {
	res := make([]*Mined, 0, len(c))
	for _, m := range c {
		sortInstances(m.Instances)
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if len(a.Instances) != len(b.Instances) {
			return len(a.Instances) > len(b.Instances)
		}
		if a.Artifact.Type != b.Artifact.Type {
			return a.Artifact.Type < b.Artifact.Type
		}
		return a.Artifact.Value < b.Artifact.Value
	})
	return res
}

func sortInstances(instances []model.Instance) {
	sort.SliceStable(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		if a.SongID != b.SongID {
			return a.SongID < b.SongID
		}
		if a.Voice != b.Voice {
			return a.Voice < b.Voice
		}
		if a.StartTick != b.StartTick {
			return a.StartTick < b.StartTick
		}
		return a.EndTick < b.EndTick
	})
}
