package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

var airlineCodes = []string{"AAL", "UAL", "DAL", "SWA", "JBU", "ASA", "SKW", "FFT", "NKS", "BAW"}

// Generator spawns aircraft on the radar perimeter pointed roughly at the
// field, with altitude and speed drawn from realistic bands.
type Generator struct {
	rng       *rand.Rand
	types     []string
	used      map[string]bool
	nextID    int
	altitudes []float64
}

// NewGenerator builds a generator over the given aircraft type list. A nil or
// empty list falls back to a single generic type.
func NewGenerator(seed int64, types []string) *Generator {
	if len(types) == 0 {
		types = []string{"B737"}
	}
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		types:     types,
		used:      make(map[string]bool),
		altitudes: []float64{3000, 5000, 7000, 10000, 15000, 20000},
	}
}

// Spawn creates one aircraft on the perimeter between 40 and 50 nm out,
// heading toward the center with up to 30 degrees of scatter.
func (g *Generator) Spawn() *Aircraft {
	angle := g.rng.Float64() * 2 * math.Pi
	radius := 40.0 + g.rng.Float64()*10.0
	x := radius * math.Cos(angle)
	y := radius * math.Sin(angle)

	inbound := airspace.Bearing(airspace.NewState(x, y, 0, 0, 0), airspace.NewState(0, 0, 0, 0, 0))
	heading := airspace.NormalizeHeading(inbound + (g.rng.Float64()*60.0 - 30.0))

	altitude := g.altitudes[g.rng.Intn(len(g.altitudes))]
	var speed float64
	if altitude < 10000 {
		speed = 180.0 + g.rng.Float64()*70.0
	} else {
		speed = 250.0 + g.rng.Float64()*100.0
	}

	g.nextID++
	return &Aircraft{
		ID:             fmt.Sprintf("AC%03d", g.nextID),
		Callsign:       g.callsign(),
		Type:           g.types[g.rng.Intn(len(g.types))],
		State:          airspace.NewState(x, y, altitude, heading, speed),
		TargetAltitude: altitude,
		TargetHeading:  heading,
		TargetSpeed:    speed,
	}
}

// callsign picks an unused airline callsign, falling back to a TEST series if
// the pool is somehow exhausted.
func (g *Generator) callsign() string {
	for attempt := 0; attempt < 50; attempt++ {
		cs := fmt.Sprintf("%s%d", airlineCodes[g.rng.Intn(len(airlineCodes))], 100+g.rng.Intn(900))
		if !g.used[cs] {
			g.used[cs] = true
			return cs
		}
	}
	cs := fmt.Sprintf("TEST%d", g.nextID)
	g.used[cs] = true
	return cs
}
