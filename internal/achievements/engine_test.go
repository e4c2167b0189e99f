// internal/achievements/engine_test.go
package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultCatalog())
}

func TestUnlockedThreshold(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		category Category
		value    int
		wantIDs  []string
	}{
		{"below first threshold", CategoryCatches, 0, nil},
		{"first catch exactly", CategoryCatches, 1, []string{"first_catch"}},
		{"both catch achievements", CategoryCatches, 100, []string{"first_catch", "catch_master"}},
		{"one short of catch master", CategoryCatches, 99, []string{"first_catch"}},
		{"species explorer", CategorySpecies, 5, []string{"species_explorer"}},
		{"unknown category", Category("bogus"), 1000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Unlocked(Progress{}, tt.category, tt.value)
			var gotIDs []string
			for _, def := range got {
				gotIDs = append(gotIDs, def.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestUnlockedNeverRepeats(t *testing.T) {
	engine := newTestEngine()
	progress := Progress{UnlockedIDs: map[string]bool{"first_catch": true}}

	for _, value := range []int{1, 50, 100, 10000} {
		got := engine.Unlocked(progress, CategoryCatches, value)
		for _, def := range got {
			assert.NotEqual(t, "first_catch", def.ID, "held achievement must not unlock again at value %d", value)
		}
	}

	// Holding everything in the category yields nothing regardless of value.
	progress = Progress{UnlockedIDs: map[string]bool{"first_catch": true, "catch_master": true}}
	assert.Empty(t, engine.Unlocked(progress, CategoryCatches, 1_000_000))
}

func TestUnlockedMonotonicInValue(t *testing.T) {
	engine := newTestEngine()

	for _, category := range engine.Categories() {
		prev := 0
		for value := 0; value <= 120; value++ {
			n := len(engine.Unlocked(Progress{}, category, value))
			require.GreaterOrEqual(t, n, prev, "category %s: unlock count shrank at value %d", category, value)
			prev = n
		}
	}
}

func TestUnlockedDoesNotMutateProgress(t *testing.T) {
	engine := newTestEngine()
	progress := Progress{UnlockedIDs: map[string]bool{"first_catch": true}, Points: 10}

	engine.Unlocked(progress, CategoryCatches, 100)

	assert.Equal(t, map[string]bool{"first_catch": true}, progress.UnlockedIDs)
	assert.Equal(t, 10, progress.Points)
}

func TestLevelBoundaries(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{399, 3},
		{400, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.Level(tt.points), "Level(%d)", tt.points)
	}
}

func TestLevelNonDecreasing(t *testing.T) {
	engine := newTestEngine()
	prev := engine.Level(0)
	for points := 1; points <= 1000; points++ {
		level := engine.Level(points)
		require.GreaterOrEqual(t, level, prev, "level decreased at %d points", points)
		prev = level
	}
}

func TestLevelProgress(t *testing.T) {
	engine := newTestEngine()

	assert.InDelta(t, 50.0, engine.LevelProgress(50), 1e-9)
	assert.InDelta(t, 0.0, engine.LevelProgress(0), 1e-9)
	// Start of level 2.
	assert.InDelta(t, 0.0, engine.LevelProgress(100), 1e-9)
	// Halfway through level 2: 100 + 75 of 150.
	assert.InDelta(t, 50.0, engine.LevelProgress(175), 1e-9)
	// Start of level 3.
	assert.InDelta(t, 0.0, engine.LevelProgress(250), 1e-9)

	for points := 0; points <= 1000; points++ {
		p := engine.LevelProgress(points)
		require.GreaterOrEqual(t, p, 0.0, "progress below 0 at %d points", points)
		require.Less(t, p, 100.0, "progress reached 100 at %d points", points)
	}
}

func TestTotalPossiblePoints(t *testing.T) {
	engine := newTestEngine()
	// 10+50+20+100+15+75+25+50+10+30
	assert.Equal(t, 385, engine.TotalPossiblePoints())
}

func TestCatalogOrderStable(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Equal(t, []Category{CategoryCatches, CategorySpecies, CategoryEvents, CategoryTrips, CategorySocial}, catalog.Categories())

	defs := catalog.Definitions(CategoryTrips)
	require.Len(t, defs, 2)
	assert.Equal(t, "adventurer", defs[0].ID)
	assert.Equal(t, "explorer", defs[1].ID)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryCatches.Valid())
	assert.True(t, CategorySocial.Valid())
	assert.False(t, Category("weather").Valid())
}
