// internal/achievements/engine.go
package achievements

// Level banding constants. Level 1 spans [0, basePoints); every level above it
// spans a fixed pointsPerLevel band.
const (
	basePoints     = 100
	pointsPerLevel = 150
)

// Progress is a read-only snapshot of a user's achievement state. The engine
// never mutates it; callers own persistence of any proposed additions.
type Progress struct {
	UnlockedIDs map[string]bool
	Points      int
}

// Has reports whether the given achievement ID is already unlocked.
func (p Progress) Has(id string) bool {
	return p.UnlockedIDs[id]
}

// Engine evaluates a user's counters against an injected catalog. It is pure
// logic: no I/O, no shared mutable state, safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an engine over the given catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Unlocked returns the definitions in category that the user does not hold yet
// and whose requirement is met by value, in catalog order. The result is empty
// for an unknown category. Repeated calls with the same inputs return the same
// result; an already-held ID is never returned.
func (e *Engine) Unlocked(progress Progress, category Category, value int) []Definition {
	var unlocked []Definition
	for _, def := range e.catalog.definitions[category] {
		if progress.Has(def.ID) {
			continue
		}
		if value >= def.Requirement {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

// Level converts accumulated points into a level number (>= 1). The boundary
// point total belongs to the upper level: Level(99) == 1, Level(100) == 2.
func (e *Engine) Level(points int) int {
	if points < basePoints {
		return 1
	}
	return (points-basePoints)/pointsPerLevel + 2
}

// LevelProgress returns the completion percentage within the current level,
// in [0, 100).
func (e *Engine) LevelProgress(points int) float64 {
	level := e.Level(points)
	if level == 1 {
		return float64(points) / float64(basePoints) * 100
	}
	levelStart := basePoints + (level-2)*pointsPerLevel
	return float64(points-levelStart) / float64(pointsPerLevel) * 100
}

// TotalPossiblePoints sums the rewards of the full catalog.
func (e *Engine) TotalPossiblePoints() int {
	return e.catalog.TotalPossiblePoints()
}

// Categories returns the catalog categories in declaration order.
func (e *Engine) Categories() []Category {
	return e.catalog.Categories()
}

// Definitions returns the catalog definitions for a category.
func (e *Engine) Definitions(category Category) []Definition {
	return e.catalog.Definitions(category)
}

// Groups returns the whole catalog as ordered category groups.
func (e *Engine) Groups() []CategoryGroup {
	return e.catalog.Groups()
}
