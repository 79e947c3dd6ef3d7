package integration

import (
	"errors"
	"strings"

	"github.com/udisondev/zonkit/internal/library"
	"github.com/udisondev/zonkit/internal/scene"
	"github.com/udisondev/zonkit/internal/testutil"
	"github.com/udisondev/zonkit/internal/zon"
)

func (s *LibrarySuite) importSet(name string) library.ZoneSet {
	recs, err := zon.Parse(strings.NewReader(testutil.Fixtures.Vegas))
	s.Require().NoError(err)

	zones := make([]zon.Bounded, 0, len(recs))
	for _, r := range recs {
		zones = append(zones, zon.BoundedFromRecord(r))
	}
	return library.ZoneSet{Name: name, Zones: zones}
}

func (s *LibrarySuite) TestSaveLoadPreservesOrder() {
	set := s.importSet("vegas")

	saved, err := s.repo.SaveSet(s.ctx, set)
	s.Require().NoError(err)
	s.True(saved)

	got, err := s.repo.LoadSet(s.ctx, "vegas")
	s.Require().NoError(err)
	s.Equal(set.Zones, got.Zones)
	s.NotEmpty(got.Digest)
	s.False(got.ImportedAt.IsZero())
}

func (s *LibrarySuite) TestSaveUnchangedIsNoop() {
	set := s.importSet("vegas")

	_, err := s.repo.SaveSet(s.ctx, set)
	s.Require().NoError(err)

	saved, err := s.repo.SaveSet(s.ctx, set)
	s.Require().NoError(err)
	s.False(saved)
}

func (s *LibrarySuite) TestSaveReplacesZones() {
	set := s.importSet("vegas")
	_, err := s.repo.SaveSet(s.ctx, set)
	s.Require().NoError(err)

	set.Zones = set.Zones[:1]
	saved, err := s.repo.SaveSet(s.ctx, set)
	s.Require().NoError(err)
	s.True(saved)

	sets, err := s.repo.ListSets(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sets, 1)
	s.Equal(1, sets[0].Zones)
}

func (s *LibrarySuite) TestDeleteAndNotFound() {
	_, err := s.repo.SaveSet(s.ctx, s.importSet("a"))
	s.Require().NoError(err)
	_, err = s.repo.SaveSet(s.ctx, s.importSet("b"))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.DeleteSet(s.ctx, "a"))
	s.True(errors.Is(s.repo.DeleteSet(s.ctx, "a"), library.ErrSetNotFound))

	_, err = s.repo.LoadSet(s.ctx, "a")
	s.True(errors.Is(err, library.ErrSetNotFound))

	sets, err := s.repo.ListSets(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sets, 1)
	s.Equal("b", sets[0].Name)
	s.Equal(3, sets[0].Zones)
}

// TestExportFromLibrary rebuilds a scene from a stored set and checks that
// the exported text matches the canonical form of the original file.
func (s *LibrarySuite) TestExportFromLibrary() {
	_, err := s.repo.SaveSet(s.ctx, s.importSet("vegas"))
	s.Require().NoError(err)

	set, err := s.repo.LoadSet(s.ctx, "vegas")
	s.Require().NoError(err)

	sc := scene.New()
	for _, z := range set.Zones {
		_, err := sc.CreateBox(zon.Record{Meta: z.Meta, Corner1: z.Min, Corner2: z.Max})
		s.Require().NoError(err)
	}

	var buf strings.Builder
	rep, err := zon.Export(&buf, sc.Sources())
	s.Require().NoError(err)
	s.Equal(3, rep.Exported)
	s.Equal(testutil.Fixtures.VegasCanonical, buf.String())
}
