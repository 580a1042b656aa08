package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreCurrentEmptyUntilFirstApply(t *testing.T) {
	s := NewStore()
	_, ok := s.Current()
	require.False(t, ok)

	changed := s.Apply(SetLobbies([]LobbyPreview{{ID: 1, Name: "room"}}))
	require.True(t, changed.Has(CategoryGameState))
	require.True(t, changed.Has(CategoryLobbyList))

	st, ok := s.Current()
	require.True(t, ok)
	require.Len(t, st.Lobbies, 1)
}

func TestStorePhaseAlwaysHasBudget(t *testing.T) {
	s := NewStore()
	s.Apply(SetPhaseTimes(map[PhaseType]int{PhaseNight: 60}))
	st, _ := s.Current()
	require.Equal(t, PhaseBriefing, st.Phase.Type)
	_, ok := st.PhaseTimes[st.Phase.Type]
	require.True(t, ok)
	require.Equal(t, 60, st.PhaseTimes[PhaseNight])
	require.Equal(t, DefaultPhaseTimes()[PhaseDusk], st.PhaseTimes[PhaseDusk])
}

func TestStoreTimeLeftNeverIncreasesWithinPhase(t *testing.T) {
	s := NewStore()
	s.Apply(StartSpectating("host"), SetPhase(PhaseState{Type: PhaseDiscussion, Day: 1}, 50_000))

	changed := s.Apply(SetTimeLeft(60_000))
	require.True(t, changed.Empty())
	st, _ := s.Current()
	require.EqualValues(t, 50_000, st.TimeLeftMs)

	changed = s.Apply(SetTimeLeft(40_000))
	require.Equal(t, Of(CategoryPhaseTimeLeft), changed)

	s.Tick(1500 * time.Millisecond)
	st, _ = s.Current()
	require.EqualValues(t, 38_500, st.TimeLeftMs)

	s.Tick(time.Hour)
	st, _ = s.Current()
	require.EqualValues(t, 0, st.TimeLeftMs)
}

func TestStorePhaseTransitionResetsClock(t *testing.T) {
	s := NewStore()
	s.Apply(StartSpectating("host"), SetPhase(PhaseState{Type: PhaseDiscussion, Day: 1}, 10_000))
	changed := s.Apply(SetPhase(PhaseState{Type: PhaseNight, Day: 1}, -1))
	require.True(t, changed.Has(CategoryPhase))
	st, _ := s.Current()
	require.Equal(t, PhaseNight, st.Phase.Type)
	require.EqualValues(t, int64(DefaultPhaseTimes()[PhaseNight])*1000, st.TimeLeftMs)
}

func TestStoreSnapshotsAreNotMutated(t *testing.T) {
	s := NewStore()
	s.Apply(SetPlayers([]Player{{Index: 0, Name: "ann", Alive: true}}))
	before, _ := s.Current()
	s.Apply(SetPlayers([]Player{{Index: 0, Name: "ann", Alive: false}}))
	after, _ := s.Current()
	require.True(t, before.Players[0].Alive)
	require.False(t, after.Players[0].Alive)
}

func TestStoreListenersRunInOrderAndUnsubscribe(t *testing.T) {
	s := NewStore()
	var calls []string
	unsubA := s.OnUpdate(func(Categories) { calls = append(calls, "a") })
	s.OnUpdate(func(Categories) { calls = append(calls, "b") })

	s.Apply(AddChat(ChatMessage{Sender: "x", Text: "hi"}))
	require.Equal(t, []string{"a", "b"}, calls)

	unsubA()
	unsubA()
	s.Apply(AddChat(ChatMessage{Sender: "x", Text: "again"}))
	require.Equal(t, []string{"a", "b", "b"}, calls)
	require.Equal(t, 1, s.Listeners())
}

func TestStoreListenerRemovedDuringDispatchIsSkipped(t *testing.T) {
	s := NewStore()
	var unsubB func()
	gotB := 0
	s.OnUpdate(func(Categories) { unsubB() })
	unsubB = s.OnUpdate(func(Categories) { gotB++ })

	s.Apply(SetGraves([]Grave{{Player: 1, Role: "jester", Faction: FactionNeutral}}))
	require.Zero(t, gotB)
}

func TestStoreUnchangedUpdateDoesNotNotify(t *testing.T) {
	s := NewStore()
	players := []Player{{Index: 0, Name: "ann"}}
	s.Apply(SetPlayers(players))
	notified := 0
	s.OnUpdate(func(Categories) { notified++ })
	require.True(t, s.Apply(SetPlayers(players)).Empty())
	require.Zero(t, notified)
}

func TestStoreTickOutsideGameIsNoop(t *testing.T) {
	s := NewStore()
	require.True(t, s.Tick(time.Second).Empty())
	s.Apply(SetLobbies(nil))
	require.True(t, s.Tick(time.Second).Empty())
}

func TestLeaveGameKeepsLobbies(t *testing.T) {
	s := NewStore()
	s.Apply(SetLobbies([]LobbyPreview{{ID: 7}}), StartSpectating("h"), SetPlayers([]Player{{Name: "a"}}))
	changed := s.Apply(LeaveGame())
	require.True(t, changed.Has(CategoryPlayerList))
	st, _ := s.Current()
	require.False(t, st.Spectating)
	require.Empty(t, st.Players)
	require.Len(t, st.Lobbies, 1)
}

func TestCategoriesSet(t *testing.T) {
	set := Of(CategoryTick, CategoryPhase)
	require.True(t, set.Has(CategoryTick))
	require.False(t, set.Has(CategoryPlayerList))
	require.False(t, set.Intersects(Of(CategoryPlayerList)))
	require.True(t, set.Intersects(Of(CategoryPlayerList, CategoryPhase)))
	require.Equal(t, "{phase,tick}", set.String())

	c, ok := ParseCategory("phaseTimeLeft")
	require.True(t, ok)
	require.Equal(t, CategoryPhaseTimeLeft, c)
	_, ok = ParseCategory("nope")
	require.False(t, ok)
}

func TestSecondsElapsed(t *testing.T) {
	st := &State{
		Phase:      PhaseState{Type: PhaseDiscussion},
		PhaseTimes: map[PhaseType]int{PhaseDiscussion: 100},
		TimeLeftMs: 97_500,
	}
	require.Equal(t, 2, st.SecondsElapsed())
}
