package catalog

import (
	"testing"
	"testing/fstest"

	"army-list-builder-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	factions := cat.ListFactions()
	require.Len(t, factions, 2)
	assert.Equal(t, "hegemony-of-embersig", factions[0].ID)
	assert.Equal(t, "free-cities-of-varn", factions[1].ID)

	hetman, err := cat.GetUnit("hetman")
	require.NoError(t, err)
	assert.True(t, hetman.HighCommand)
	assert.Equal(t, 1, hetman.Availability)

	automata, err := cat.GetUnit("mk-os-automata")
	require.NoError(t, err)
	assert.Equal(t, "trabor-slepmund", automata.Companion)
}

func TestGetUnitNotFound(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	_, err = cat.GetUnit("no-such-unit")
	assert.ErrorIs(t, err, ErrUnitNotFound)

	_, err = cat.GetUnits("no-such-faction")
	assert.ErrorIs(t, err, ErrFactionNotFound)

	_, err = cat.GetFaction("no-such-faction")
	assert.ErrorIs(t, err, ErrFactionNotFound)
}

func TestGetUnitsPartitionsByFaction(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	seen := map[string]string{}
	total := 0
	for _, f := range cat.ListFactions() {
		units, err := cat.GetUnits(f.ID)
		require.NoError(t, err)
		for _, u := range units {
			assert.Equal(t, f.ID, u.FactionID)
			prev, dup := seen[u.ID]
			assert.False(t, dup, "unit %s listed in %s and %s", u.ID, prev, f.ID)
			seen[u.ID] = f.ID
		}
		total += len(units)
	}
	assert.Equal(t, cat.Len(), total)
}

func TestFilter(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	t.Run("tournament only drops illegal units", func(t *testing.T) {
		units, err := cat.Filter("hegemony-of-embersig", UnitFilter{TournamentOnly: true})
		require.NoError(t, err)
		for _, u := range units {
			assert.NotEqual(t, "ember-mortar", u.ID)
		}
		all, err := cat.GetUnits("hegemony-of-embersig")
		require.NoError(t, err)
		assert.Len(t, units, len(all)-1)
	})

	t.Run("high command only", func(t *testing.T) {
		units, err := cat.Filter("hegemony-of-embersig", UnitFilter{HighCommandOnly: true})
		require.NoError(t, err)
		ids := make([]string, 0, len(units))
		for _, u := range units {
			ids = append(ids, u.ID)
		}
		assert.ElementsMatch(t, []string{"hetman", "voivode"}, ids)
	})

	t.Run("keyword is case insensitive", func(t *testing.T) {
		units, err := cat.Filter("free-cities-of-varn", UnitFilter{Keyword: "artillery"})
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, "bombard-crew", units[0].ID)
	})
}

func TestCompanions(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	companions := cat.Companions("trabor-slepmund")
	require.Len(t, companions, 1)
	assert.Equal(t, "mk-os-automata", companions[0].ID)
	assert.Empty(t, cat.Companions("hetman"))
}

func TestNewRejectsBrokenInvariants(t *testing.T) {
	factions := []models.Faction{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	tests := []struct {
		name  string
		units []models.Unit
		want  string
	}{
		{
			name:  "duplicate id",
			units: []models.Unit{{ID: "x", FactionID: "a", Availability: 1}, {ID: "x", FactionID: "a", Availability: 1}},
			want:  "duplicate id",
		},
		{
			name:  "unknown faction",
			units: []models.Unit{{ID: "x", FactionID: "zzz", Availability: 1}},
			want:  "is not registered",
		},
		{
			name:  "zero availability",
			units: []models.Unit{{ID: "x", FactionID: "a"}},
			want:  "availability must be at least 1",
		},
		{
			name:  "negative points",
			units: []models.Unit{{ID: "x", FactionID: "a", Availability: 1, PointsCost: -5}},
			want:  "points cost -5 is negative",
		},
		{
			name:  "missing companion host",
			units: []models.Unit{{ID: "x", FactionID: "a", Availability: 1, Companion: "ghost"}},
			want:  "does not exist",
		},
		{
			name: "companion host in another faction",
			units: []models.Unit{
				{ID: "host", FactionID: "b", Availability: 1},
				{ID: "x", FactionID: "a", Availability: 1, Companion: "host"},
			},
			want: "belongs to faction",
		},
		{
			name:  "self companion",
			units: []models.Unit{{ID: "x", FactionID: "a", Availability: 1, Companion: "x"}},
			want:  "own companion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(factions, tt.units)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHighCommandKeywordImpliesFlag(t *testing.T) {
	cat, err := New(
		[]models.Faction{{ID: "a"}},
		[]models.Unit{{ID: "general", FactionID: "a", Availability: 1, Keywords: []models.Keyword{{Name: "high command"}}}},
	)
	require.NoError(t, err)

	u, err := cat.GetUnit("general")
	require.NoError(t, err)
	assert.True(t, u.HighCommand)
	assert.NotNil(t, u.SpecialRules)
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"units.yaml": {Data: []byte(`
factions:
  - id: a
    name: A
units:
  - id: host
    faction_id: a
    availability: 1
  - id: pet
    faction_id: a
    availability: 1
    companion: host
`)},
		"empty.yaml": {Data: []byte("units: []\n")},
	}

	cat, err := Load(fsys, "units.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	_, err = Load(fsys, "empty.yaml")
	assert.ErrorContains(t, err, "no factions defined")

	_, err = Load(fsys, "missing.yaml")
	assert.Error(t, err)
}
