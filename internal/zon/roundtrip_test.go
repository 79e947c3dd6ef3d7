package zon

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func randomRecords(rng *rand.Rand, n int) []Record {
	coord := func() float64 { return (rng.Float64() - 0.5) * 20000 }
	recs := make([]Record, n)
	for i := range recs {
		recs[i] = Record{
			Meta: Meta{
				Name:     fmt.Sprintf("Zone%d", i),
				ZoneType: []string{"ped", "nav", "info", ""}[rng.IntN(4)],
				Flag:     fmt.Sprint(rng.IntN(8)),
				Parent:   "none",
			},
			Corner1: r3.Vec{X: coord(), Y: coord(), Z: coord()},
			Corner2: r3.Vec{X: coord(), Y: coord(), Z: coord()},
		}
	}
	return recs
}

// TestRoundTrip writes boxes, parses the output, rebuilds boxes and checks
// the recovered extents against the originals within the output precision.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	recs := randomRecords(rng, 200)

	entries := make([]Bounded, 0, len(recs))
	for _, r := range recs {
		v := r.Box().Vertices()
		entries = append(entries, BoundedFrom(r.Meta, boundsGeometry(Bounds(v[:]))))
	}

	var buf bytes.Buffer
	_, err := Write(&buf, entries)
	require.NoError(t, err)

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(recs))

	got := make([]Bounded, 0, len(parsed))
	for _, r := range parsed {
		b := r.Box()
		got = append(got, Bounded{Meta: r.Meta, Min: b.Min(), Max: b.Max()})
	}

	if diff := cmp.Diff(entries, got, cmpopts.EquateApprox(0, 0.001)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_TextIsStable(t *testing.T) {
	src := "zone\nZone1, ped, 0.000, 0.000, 0.000, 10.000, 10.000, 10.000, 1, none\nB, nav, -1.500, 2.250, -3.125, 4.000, 5.000, 6.000, 0, Zone1\nend\n"

	recs, err := Parse(bytes.NewBufferString(src))
	require.NoError(t, err)

	entries := make([]Bounded, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, BoundedFromRecord(r))
	}

	var buf bytes.Buffer
	_, err = Write(&buf, entries)
	require.NoError(t, err)
	require.Equal(t, src, buf.String())
}

type boundsGeometry r3.Box

func (g boundsGeometry) WorldMin() r3.Vec { return g.Min }
func (g boundsGeometry) WorldMax() r3.Vec { return g.Max }
