package game

import "strings"

// Category tags one facet of State that an update changed.
type Category uint8

const (
	CategoryPhase Category = iota
	CategoryPhaseTimeLeft
	CategoryTick
	CategoryPlayerList
	CategoryChat
	CategoryGraveyard
	CategoryLobbyList
	CategoryGameState
	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryPhase:         "phase",
	CategoryPhaseTimeLeft: "phaseTimeLeft",
	CategoryTick:          "tick",
	CategoryPlayerList:    "playerList",
	CategoryChat:          "chat",
	CategoryGraveyard:     "graveyard",
	CategoryLobbyList:     "lobbyList",
	CategoryGameState:     "gameState",
}

func (c Category) String() string {
	if c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a wire name back to its Category.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Categories is a set of Category values.
type Categories uint16

// Of builds a set from the given categories.
func Of(cats ...Category) Categories {
	var out Categories
	for _, c := range cats {
		out = out.With(c)
	}
	return out
}

// AllCategories contains every category.
func AllCategories() Categories {
	return Categories(1<<categoryCount - 1)
}

func (s Categories) With(c Category) Categories {
	if c >= categoryCount {
		return s
	}
	return s | 1<<c
}

func (s Categories) Has(c Category) bool {
	return c < categoryCount && s&(1<<c) != 0
}

func (s Categories) Intersects(other Categories) bool {
	return s&other != 0
}

func (s Categories) Union(other Categories) Categories {
	return s | other
}

func (s Categories) Empty() bool { return s == 0 }

// List returns the members in declaration order.
func (s Categories) List() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s Categories) String() string {
	names := make([]string, 0, categoryCount)
	for _, c := range s.List() {
		names = append(names, c.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
