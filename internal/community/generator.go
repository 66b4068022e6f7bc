package community

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/store"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"google.golang.org/api/iterator"
)

// SETTINGS_COLLECTION is where community settings live.
const SETTINGS_COLLECTION = "community_settings"

// proLocationP is the chance that a Pro user attaches a trail location to a setup.
const proLocationP = 0.7

type table[T any] struct {
	items []T
	dist  distuv.Categorical
}

func newTable[T any](items []T, src rand.Source) *table[T] {
	w := make([]float64, len(items))
	for i := range w {
		w[i] = 1
	}
	return &table[T]{items: items, dist: distuv.NewCategorical(w, src)}
}

func (t *table[T]) pick() T {
	return t.items[int(t.dist.Rand())]
}

// Generator produces random community settings. It is a batch.Source.
type Generator struct {
	// Count is the number of settings to produce before reporting iterator.Done.
	Count int
	// Collection receives the settings.
	Collection string
	// Now is the clock that creation dates are drawn back from.
	Now func() time.Time

	rng      *rand.Rand
	users    *table[User]
	forks    *table[Component]
	shocks   *table[Component]
	bikes    map[Category]*table[Bike]
	trails   *table[TrailSpot]
	weights  *table[string]
	notes    *table[string]
	location distuv.Bernoulli

	n int
}

// NewGenerator makes a Generator of count settings. A negative seed seeds from the clock.
func NewGenerator(seed int64, count int) *Generator {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewSource(uint64(seed))

	bikeTables := make(map[Category]*table[Bike])
	for _, c := range []Category{Downhill, Enduro, Trail} {
		bikeTables[c] = newTable(bikes[c], src)
	}

	return &Generator{
		Count:      count,
		Collection: SETTINGS_COLLECTION,
		Now:        time.Now,
		rng:        rand.New(src),
		users:      newTable(users, src),
		forks:      newTable(forks, src),
		shocks:     newTable(shocks, src),
		bikes:      bikeTables,
		trails:     newTable(trails, src),
		weights:    newTable(riderWeights, src),
		notes:      newTable(notes, src),
		location:   distuv.Bernoulli{P: proLocationP, Src: src},
	}
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) knob(lo, hi int) string {
	return strconv.Itoa(g.between(lo, hi))
}

func (g *Generator) tune(sagLo int) Tune {
	return Tune{
		Sag:        g.knob(sagLo, sagLo+9),
		SpringRate: g.knob(100, 199),
		HSC:        g.knob(1, 20),
		LSC:        g.knob(1, 20),
		HSR:        g.knob(1, 20),
		LSR:        g.knob(1, 20),
		Spacers:    g.knob(0, 2),
	}
}

// Setting draws one random setting.
func (g *Generator) Setting() Setting {
	user := g.users.pick()
	fork := g.forks.pick()
	shock := g.shocks.pick()
	bike := g.bikes[CategoryFor(fork, shock)].pick()

	front := g.between(20, 29)
	rear := front + g.between(1, 3)

	s := Setting{
		User:          user,
		Fork:          fork,
		Shock:         shock,
		ForkSettings:  g.tune(20),
		ShockSettings: g.tune(25),
		FrontTire:     fmt.Sprintf("%d psi", front),
		RearTire:      fmt.Sprintf("%d psi", rear),
		RiderWeight:   g.weights.pick(),
		Notes:         g.notes.pick(),
		Bike:          bike,
	}

	if user.IsPro && g.location.Rand() == 1 {
		spot := g.trails.pick()
		s.Location = &Location{
			Name:      spot.Name,
			Geohash:   Geohash(spot.Lat, spot.Lng),
			Lat:       spot.Lat,
			Lng:       spot.Lng,
			TrailType: spot.TrailType,
		}
	}

	s.Imports = g.between(0, 199)
	s.Upvotes = int(math.Floor(float64(s.Imports)*0.7 + g.rng.Float64()*50))
	s.Downvotes = g.between(0, 9)
	s.Views = int(math.Floor(float64(s.Imports)*5 + g.rng.Float64()*500))

	days := g.between(0, 59)
	s.Created = g.Now().Add(-time.Duration(days) * 24 * time.Hour)

	return s
}

// Next yields a Set of a fresh random setting with a store-generated ID.
// Cancellation is left to the committer.
func (g *Generator) Next(ctx context.Context) (store.Op, error) {
	if g.n >= g.Count {
		return store.Op{}, iterator.Done
	}
	s := g.Setting()
	g.n++
	log.Debugf("Created setting %d/%d: %s", g.n, g.Count, s)
	return store.SetOp(g.Collection, "", s.Fields()), nil
}
