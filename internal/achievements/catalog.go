// internal/achievements/catalog.go
package achievements

// Category is a fixed grouping key partitioning the achievement catalog.
type Category string

const (
	CategoryCatches Category = "catches"
	CategorySpecies Category = "species"
	CategoryEvents  Category = "events"
	CategoryTrips   Category = "trips"
	CategorySocial  Category = "social"
)

// Valid reports whether c is one of the known catalog categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCatches, CategorySpecies, CategoryEvents, CategoryTrips, CategorySocial:
		return true
	}
	return false
}

// Definition is an immutable achievement definition. Definitions are declared
// once at process start and never mutated.
type Definition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement int    `json:"requirement"`
	Points      int    `json:"points"`
}

// Catalog holds the full achievement catalog grouped by category. Order within
// a category is declaration order and is the order unlock results are returned in.
type Catalog struct {
	categories  []Category
	definitions map[Category][]Definition
}

// NewCatalog builds a catalog from an ordered list of category groups.
func NewCatalog(groups []CategoryGroup) *Catalog {
	c := &Catalog{definitions: make(map[Category][]Definition, len(groups))}
	for _, g := range groups {
		c.categories = append(c.categories, g.Category)
		c.definitions[g.Category] = g.Definitions
	}
	return c
}

// CategoryGroup pairs a category with its ordered definitions.
type CategoryGroup struct {
	Category    Category     `json:"category"`
	Definitions []Definition `json:"definitions"`
}

// Categories returns the catalog categories in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Definitions returns the definitions for a category in declaration order.
// An unknown category yields an empty slice.
func (c *Catalog) Definitions(category Category) []Definition {
	defs := c.definitions[category]
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}

// Groups returns the whole catalog as ordered category groups.
func (c *Catalog) Groups() []CategoryGroup {
	out := make([]CategoryGroup, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, CategoryGroup{Category: cat, Definitions: c.Definitions(cat)})
	}
	return out
}

// TotalPossiblePoints sums the point reward of every definition in the catalog.
func (c *Catalog) TotalPossiblePoints() int {
	total := 0
	for _, cat := range c.categories {
		for _, def := range c.definitions[cat] {
			total += def.Points
		}
	}
	return total
}

// DefaultCatalog returns the CastnFish achievement catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CategoryGroup{
		{
			Category: CategoryCatches,
			Definitions: []Definition{
				{ID: "first_catch", Title: "First Catch", Description: "Catch your first fish", Icon: "fa-fish", Requirement: 1, Points: 10},
				{ID: "catch_master", Title: "Catch Master", Description: "Catch 100 fish", Icon: "fa-trophy", Requirement: 100, Points: 50},
			},
		},
		{
			Category: CategorySpecies,
			Definitions: []Definition{
				{ID: "species_explorer", Title: "Species Explorer", Description: "Catch 5 different species", Icon: "fa-search", Requirement: 5, Points: 20},
				{ID: "species_master", Title: "Species Master", Description: "Catch 20 different species", Icon: "fa-crown", Requirement: 20, Points: 100},
			},
		},
		{
			Category: CategoryEvents,
			Definitions: []Definition{
				{ID: "event_participant", Title: "Event Participant", Description: "Participate in your first event", Icon: "fa-calendar-check", Requirement: 1, Points: 15},
				{ID: "event_enthusiast", Title: "Event Enthusiast", Description: "Participate in 10 events", Icon: "fa-calendar-star", Requirement: 10, Points: 75},
			},
		},
		{
			Category: CategoryTrips,
			Definitions: []Definition{
				{ID: "adventurer", Title: "Adventurer", Description: "Go on 5 fishing trips", Icon: "fa-compass", Requirement: 5, Points: 25},
				{ID: "explorer", Title: "Explorer", Description: "Visit 10 different fishing spots", Icon: "fa-map-marked-alt", Requirement: 10, Points: 50},
			},
		},
		{
			Category: CategorySocial,
			Definitions: []Definition{
				{ID: "community_member", Title: "Community Member", Description: "Make your first forum post", Icon: "fa-comments", Requirement: 1, Points: 10},
				{ID: "helpful_angler", Title: "Helpful Angler", Description: "Get 10 helpful post reactions", Icon: "fa-hand-helping", Requirement: 10, Points: 30},
			},
		},
	})
}
