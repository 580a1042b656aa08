package game

// PhaseType names one kind of game phase.
type PhaseType string

const (
	PhaseBriefing   PhaseType = "briefing"
	PhaseObituary   PhaseType = "obituary"
	PhaseDiscussion PhaseType = "discussion"
	PhaseNomination PhaseType = "nomination"
	PhaseTestimony  PhaseType = "testimony"
	PhaseJudgement  PhaseType = "judgement"
	PhaseFinalWords PhaseType = "finalWords"
	PhaseDusk       PhaseType = "dusk"
	PhaseNight      PhaseType = "night"
	PhaseRecess     PhaseType = "recess"
)

// PhaseOrder lists every phase kind in the order a day cycles through them.
var PhaseOrder = []PhaseType{
	PhaseBriefing,
	PhaseObituary,
	PhaseDiscussion,
	PhaseNomination,
	PhaseTestimony,
	PhaseJudgement,
	PhaseFinalWords,
	PhaseDusk,
	PhaseNight,
	PhaseRecess,
}

func (p PhaseType) String() string { return string(p) }

// Valid reports whether p is one of the known phase kinds.
func (p PhaseType) Valid() bool {
	for _, known := range PhaseOrder {
		if p == known {
			return true
		}
	}
	return false
}

// DefaultPhaseTimes are the budgets, in seconds, the store falls back to when a
// server omits one.
func DefaultPhaseTimes() map[PhaseType]int {
	return map[PhaseType]int{
		PhaseBriefing:   45,
		PhaseObituary:   20,
		PhaseDiscussion: 100,
		PhaseNomination: 100,
		PhaseTestimony:  30,
		PhaseJudgement:  30,
		PhaseFinalWords: 7,
		PhaseDusk:       7,
		PhaseNight:      45,
		PhaseRecess:     0,
	}
}

type PhaseState struct {
	Type PhaseType `json:"type"`
	Day  int       `json:"dayNumber"`
}

type Faction string

const (
	FactionMafia   Faction = "mafia"
	FactionTown    Faction = "town"
	FactionNeutral Faction = "neutral"
	FactionCoven   Faction = "coven"
)

type Player struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Alive bool   `json:"alive"`
	Role  string `json:"role,omitempty"`
	Votes int    `json:"votes"`
}

type Grave struct {
	Player    int       `json:"player"`
	Role      string    `json:"role"`
	Faction   Faction   `json:"faction"`
	DiedPhase PhaseType `json:"diedPhase"`
	Day       int       `json:"dayNumber"`
	Will      string    `json:"will,omitempty"`
}

type ChatKind string

const (
	ChatNormal    ChatKind = "normal"
	ChatWhisper   ChatKind = "whisper"
	ChatSystem    ChatKind = "system"
	ChatGraveyard ChatKind = "graveyard"
)

type ChatMessage struct {
	Sender string   `json:"sender"`
	Text   string   `json:"text"`
	Kind   ChatKind `json:"kind"`
}

type LobbyPreview struct {
	ID      uint32   `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
	InGame  bool     `json:"inGame"`
}

// State is an immutable snapshot of everything the client knows about the
// current game. The store publishes a fresh value on every update, so holding
// on to a *State never observes later changes.
type State struct {
	Phase      PhaseState
	PhaseTimes map[PhaseType]int
	TimeLeftMs int64
	Players    []Player
	Graves     []Grave
	Chat       []ChatMessage
	Lobbies    []LobbyPreview
	HostName   string
	Spectating bool
}

// PhaseBudget returns the configured length of the current phase.
func (s *State) PhaseBudget() int {
	return s.PhaseTimes[s.Phase.Type]
}

// SecondsElapsed is how long the current phase has been running, floored.
func (s *State) SecondsElapsed() int {
	elapsed := int64(s.PhaseBudget())*1000 - s.TimeLeftMs
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / 1000)
}

// Player returns the player with the given index.
func (s *State) Player(index int) (Player, bool) {
	for _, p := range s.Players {
		if p.Index == index {
			return p, true
		}
	}
	return Player{}, false
}

func (s *State) clone() *State {
	out := *s
	out.PhaseTimes = make(map[PhaseType]int, len(s.PhaseTimes))
	for k, v := range s.PhaseTimes {
		out.PhaseTimes[k] = v
	}
	return &out
}
