package melody

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
)

type Entry struct {
	Pattern     model.MelodyFigure
	Occurrences []model.Occurrence

	seen map[model.Occurrence]bool
}

func (e *Entry) add(occ model.Occurrence) {
	if e.seen == nil {
		e.seen = make(map[model.Occurrence]bool)
		for _, o := range e.Occurrences {
			e.seen[o] = true
		}
	}
	if e.seen[occ] {
		return
	}
	e.seen[occ] = true
	e.Occurrences = append(e.Occurrences, occ)
}

func (e *Entry) Count() int {
	return len(e.Occurrences)
}

// Catalog collects melody patterns by key. Exported fields so it can be
// written to the index as is.
type Catalog struct {
	Entries map[string]*Entry
}

func NewCatalog() *Catalog {
	return &Catalog{Entries: make(map[string]*Entry)}
}

func (c *Catalog) Add(p model.MelodyFigure, occurrences ...model.Occurrence) {
	key := p.Key()
	e, ok := c.Entries[key]
	if !ok {
		e = &Entry{Pattern: p}
		c.Entries[key] = e
	}
	for _, o := range occurrences {
		e.add(o)
	}
}

func (c *Catalog) Merge(other *Catalog) {
	for _, e := range other.Sorted() {
		c.Add(e.Pattern, e.Occurrences...)
	}
}

func (c *Catalog) Len() int {
	return len(c.Entries)
}

func (c *Catalog) Get(key string) (*Entry, bool) {
	e, ok := c.Entries[key]
	return e, ok
}

// Sorted returns the entries by descending occurrence count, then key.
func (c *Catalog) Sorted() []*Entry {
	res := make([]*Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count() != res[j].Count() {
			return res[i].Count() > res[j].Count()
		}
		return res[i].Pattern.Key() < res[j].Pattern.Key()
	})
	return res
}

// Prune drops rare patterns, patterns that only add a leading rest to
// another one, and patterns that hardly ever occur outside a longer one.
func (c *Catalog) Prune(t config.Tuning) {
	for k, e := range c.Entries {
		if e.Count() < t.MinMelodyOccurrences {
			delete(c.Entries, k)
		}
	}

	leastRest := make(map[string]int)
	for _, e := range c.Entries {
		s := shape(e.Pattern)
		if rest, ok := leastRest[s]; !ok || e.Pattern.LeadingRest() < rest {
			leastRest[s] = e.Pattern.LeadingRest()
		}
	}
	for k, e := range c.Entries {
		if e.Pattern.LeadingRest() > leastRest[shape(e.Pattern)] {
			delete(c.Entries, k)
		}
	}

	var contained []string
	for k, short := range c.Entries {
		for _, long := range c.Entries {
			if len(long.Pattern.Notes) <= len(short.Pattern.Notes) {
				continue
			}
			if short.Count() <= long.Count()+t.ContainmentTolerance && contains(long.Pattern, short.Pattern) {
				contained = append(contained, k)
				break
			}
		}
	}
	for _, k := range contained {
		delete(c.Entries, k)
	}
}

// shape is the pattern with its leading rest removed.
func shape(p model.MelodyFigure) string {
	rest := p.LeadingRest()
	parts := make([]string, len(p.Notes))
	for i, n := range p.Notes {
		parts[i] = fmt.Sprintf("%v:%v:%v", n.Offset-rest, n.DeltaPitch, n.Duration)
	}
	return strings.Join(parts, ",")
}

// contains reports whether short appears inside long at a constant time
// shift with the same steps between its notes.
func contains(long, short model.MelodyFigure) bool {
	if len(short.Notes) == 0 {
		return false
	}
	for k := 0; k+len(short.Notes) <= len(long.Notes); k++ {
		shift := long.Notes[k].Offset - short.Notes[0].Offset
		found := true
		for i, n := range short.Notes {
			l := long.Notes[k+i]
			if l.Offset-n.Offset != shift || l.Duration != n.Duration || (i > 0 && l.DeltaPitch != n.DeltaPitch) {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
