package armylist

import (
	"testing"

	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embersig = "hegemony-of-embersig"

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return cat
}

func mustAdd(t *testing.T, cat Catalog, l *List, ids ...string) {
	t.Helper()
	for _, id := range ids {
		res := l.Add(cat, id)
		require.True(t, res.Allowed, "add %s: %+v", id, res.Violations)
	}
}

func TestEmbersigScenario(t *testing.T) {
	cat := loadCatalog(t)
	l := New(embersig)

	assert.True(t, l.Add(cat, "hetman").Allowed)
	assert.True(t, l.Add(cat, "corporal").Allowed)

	res := l.Add(cat, "hetman")
	assert.False(t, res.Allowed)
	assert.Equal(t, []ViolationKind{AvailabilityExceeded}, res.Kinds())

	res = l.Add(cat, "voivode")
	assert.False(t, res.Allowed)
	assert.Equal(t, []ViolationKind{HighCommandExclusivity}, res.Kinds())
	assert.Equal(t, "hetman", res.Violations[0].RelatedID)

	res = l.Add(cat, "mk-os-automata")
	assert.False(t, res.Allowed)
	assert.Equal(t, []ViolationKind{CompanionPrerequisiteUnmet}, res.Kinds())
	assert.Equal(t, "trabor-slepmund", res.Violations[0].RelatedID)

	assert.True(t, l.Add(cat, "trabor-slepmund").Allowed)
	assert.True(t, l.Add(cat, "mk-os-automata").Allowed)

	assert.Empty(t, ValidateList(cat, l))
	assert.Equal(t, 1, l.Count("hetman"))
	assert.Equal(t, 4, l.Len())
}

func TestHighCommandExclusivityIndependentOfOrder(t *testing.T) {
	cat := loadCatalog(t)
	hc := []string{"hetman", "voivode"}

	for _, first := range hc {
		for _, second := range hc {
			if first == second {
				continue
			}
			t.Run(first+" then "+second, func(t *testing.T) {
				l := New(embersig)
				mustAdd(t, cat, l, "corporal", first, "embersig-musketeers")

				res := CanAdd(cat, l, second)
				assert.False(t, res.Allowed)
				assert.True(t, res.Has(HighCommandExclusivity))
			})
		}
	}
}

func TestHighCommandSameUnitWithSpareAvailability(t *testing.T) {
	cat, err := catalog.New(
		[]models.Faction{{ID: "f"}},
		[]models.Unit{{ID: "warlord", FactionID: "f", HighCommand: true, Availability: 2}},
	)
	require.NoError(t, err)

	l := New("f")
	mustAdd(t, cat, l, "warlord")

	res := CanAdd(cat, l, "warlord")
	assert.False(t, res.Allowed)
	assert.Equal(t, []ViolationKind{HighCommandExclusivity}, res.Kinds())
}

func TestAvailabilityCap(t *testing.T) {
	cat := loadCatalog(t)

	for _, f := range cat.ListFactions() {
		units, err := cat.GetUnits(f.ID)
		require.NoError(t, err)

		for _, u := range units {
			t.Run(u.ID, func(t *testing.T) {
				l := New(f.ID)
				if u.Companion != "" {
					mustAdd(t, cat, l, u.Companion)
				}
				for i := 0; i < u.Availability; i++ {
					res := l.Add(cat, u.ID)
					require.True(t, res.Allowed, "copy %d: %+v", i+1, res.Violations)
				}
				res := CanAdd(cat, l, u.ID)
				assert.False(t, res.Allowed)
				assert.True(t, res.Has(AvailabilityExceeded))
			})
		}
	}
}

func TestCompanionPrerequisite(t *testing.T) {
	cat := loadCatalog(t)

	l := New("free-cities-of-varn")
	res := CanAdd(cat, l, "powder-wagon")
	assert.False(t, res.Allowed)
	assert.True(t, res.Has(CompanionPrerequisiteUnmet))

	mustAdd(t, cat, l, "bombard-crew")
	assert.True(t, CanAdd(cat, l, "powder-wagon").Allowed)
}

func TestFactionConsistency(t *testing.T) {
	cat := loadCatalog(t)

	t.Run("list with faction rejects foreign unit", func(t *testing.T) {
		res := CanAdd(cat, New(embersig), "arbalest-company")
		assert.False(t, res.Allowed)
		assert.Equal(t, []Violation{{Kind: FactionMismatch, UnitID: "arbalest-company", RelatedID: embersig}}, res.Violations)
	})

	t.Run("zero list adopts faction of first unit", func(t *testing.T) {
		var l List
		mustAdd(t, cat, &l, "arbalest-company")
		assert.Equal(t, "free-cities-of-varn", l.FactionID())

		res := l.Add(cat, "corporal")
		assert.True(t, res.Has(FactionMismatch))
	})
}

func TestAllViolationsReported(t *testing.T) {
	cat, err := catalog.New(
		[]models.Faction{{ID: "a"}, {ID: "b"}},
		[]models.Unit{
			{ID: "a-general", FactionID: "a", HighCommand: true, Availability: 1},
			{ID: "b-host", FactionID: "b", Availability: 1},
			{ID: "b-general", FactionID: "b", HighCommand: true, Availability: 1, Companion: "b-host"},
		},
	)
	require.NoError(t, err)

	l := New("a")
	mustAdd(t, cat, l, "a-general")

	res := CanAdd(cat, l, "b-general")
	assert.False(t, res.Allowed)
	assert.Equal(t, []ViolationKind{FactionMismatch, HighCommandExclusivity, CompanionPrerequisiteUnmet}, res.Kinds())
}

func TestUnknownUnit(t *testing.T) {
	cat := loadCatalog(t)
	l := New(embersig)

	res := CanAdd(cat, l, "ghost")
	assert.False(t, res.Allowed)
	assert.Equal(t, []Violation{{Kind: UnknownUnit, UnitID: "ghost"}}, res.Violations)

	res = CanRemove(cat, l, "ghost")
	assert.Equal(t, []ViolationKind{UnknownUnit}, res.Kinds())

	res = CanRemove(cat, l, "hetman")
	assert.Equal(t, []ViolationKind{NotSelected}, res.Kinds())
}

func TestCanRemoveHostWithCompanion(t *testing.T) {
	cat := loadCatalog(t)
	l := New(embersig)
	mustAdd(t, cat, l, "trabor-slepmund", "mk-os-automata")

	res := l.Remove(cat, "trabor-slepmund")
	assert.False(t, res.Allowed)
	assert.Equal(t, []Violation{{Kind: CompanionOrphaned, UnitID: "trabor-slepmund", RelatedID: "mk-os-automata"}}, res.Violations)
	assert.Equal(t, 1, l.Count("trabor-slepmund"))

	assert.True(t, l.Remove(cat, "mk-os-automata").Allowed)
	assert.True(t, l.Remove(cat, "trabor-slepmund").Allowed)
	assert.True(t, l.IsEmpty())
}

func TestCanRemoveHostWithSpareCopiesStillBlocked(t *testing.T) {
	cat := loadCatalog(t)
	l := New("free-cities-of-varn")
	mustAdd(t, cat, l, "bombard-crew", "bombard-crew", "powder-wagon")

	res := CanRemove(cat, l, "bombard-crew")
	assert.False(t, res.Allowed)
	assert.True(t, res.Has(CompanionOrphaned))
}

func TestRemoveBatch(t *testing.T) {
	cat := loadCatalog(t)

	t.Run("host and companion together", func(t *testing.T) {
		l := New(embersig)
		mustAdd(t, cat, l, "hetman", "trabor-slepmund", "mk-os-automata")

		res := l.RemoveBatch(cat, []string{"trabor-slepmund", "mk-os-automata"})
		require.True(t, res.Allowed, "%+v", res.Violations)
		assert.Equal(t, []Entry{{UnitID: "hetman", Count: 1}}, l.Entries())
	})

	t.Run("host alone in batch", func(t *testing.T) {
		l := New(embersig)
		mustAdd(t, cat, l, "trabor-slepmund", "mk-os-automata", "corporal")

		res := l.RemoveBatch(cat, []string{"corporal", "trabor-slepmund"})
		assert.False(t, res.Allowed)
		assert.True(t, res.Has(CompanionOrphaned))
		assert.Equal(t, 3, l.Len())
	})

	t.Run("more copies than selected", func(t *testing.T) {
		l := New(embersig)
		mustAdd(t, cat, l, "corporal")

		res := CanRemoveBatch(cat, l, []string{"corporal", "corporal", "ghost"})
		assert.Equal(t, []ViolationKind{NotSelected, UnknownUnit}, res.Kinds())
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.True(t, CanRemoveBatch(cat, New(embersig), nil).Allowed)
	})
}

func TestValidateListMatchesIncrementalChecks(t *testing.T) {
	cat := loadCatalog(t)

	candidates := []string{
		"mk-os-automata", "hetman", "voivode", "trabor-slepmund", "mk-os-automata",
		"embersig-musketeers", "embersig-musketeers", "corporal", "hetman",
		"winged-hussars", "winged-hussars", "winged-hussars", "ember-mortar",
		"arbalest-company", "corporal", "corporal", "corporal",
	}

	l := New(embersig)
	for _, id := range candidates {
		l.Add(cat, id)
		require.Empty(t, ValidateList(cat, l), "after %s", id)
	}
	assert.Equal(t, 1, l.Count("hetman"))
	assert.Zero(t, l.Count("voivode"))
	assert.Equal(t, 3, l.Count("corporal"))
}

func TestValidateListReportsBrokenList(t *testing.T) {
	cat := loadCatalog(t)

	l := New(embersig)
	l.increment("hetman", 2)
	l.increment("voivode", 1)
	l.increment("mk-os-automata", 1)
	l.increment("arbalest-company", 1)
	l.increment("ghost", 1)

	violations := ValidateList(cat, l)
	assert.Equal(t, []Violation{
		{Kind: AvailabilityExceeded, UnitID: "hetman"},
		{Kind: HighCommandExclusivity, UnitID: "voivode", RelatedID: "hetman"},
		{Kind: CompanionPrerequisiteUnmet, UnitID: "mk-os-automata", RelatedID: "trabor-slepmund"},
		{Kind: FactionMismatch, UnitID: "arbalest-company", RelatedID: embersig},
		{Kind: UnknownUnit, UnitID: "ghost"},
	}, violations)
}

func TestValidateListEmpty(t *testing.T) {
	cat := loadCatalog(t)
	assert.Empty(t, ValidateList(cat, nil))
	assert.Empty(t, ValidateList(cat, New(embersig)))
}

func TestSecondHighCommandCopyAgreesWithCanAdd(t *testing.T) {
	cat := loadCatalog(t)

	l := New(embersig)
	mustAdd(t, cat, l, "hetman")
	incremental := CanAdd(cat, l, "hetman")

	l.increment("hetman", 1)
	batch := ValidateList(cat, l)

	assert.Equal(t, []ViolationKind{AvailabilityExceeded}, incremental.Kinds())
	assert.Equal(t, incremental.Kinds(), Kinds(batch))
}
