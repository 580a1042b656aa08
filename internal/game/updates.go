package game

import "slices"

// SetPhase moves to a new phase. Entering a different phase (or a new day)
// resets the clock to timeLeftMs, or to the full budget when timeLeftMs < 0.
func SetPhase(phase PhaseState, timeLeftMs int64) Update {
	return func(s *State) Categories {
		if phase.Type == s.Phase.Type && phase.Day == s.Phase.Day {
			return setTimeLeft(s, timeLeftMs)
		}
		s.Phase = phase
		if timeLeftMs < 0 {
			budget, ok := s.PhaseTimes[phase.Type]
			if !ok {
				budget = DefaultPhaseTimes()[phase.Type]
			}
			timeLeftMs = int64(budget) * 1000
		}
		s.TimeLeftMs = timeLeftMs
		return Of(CategoryPhase, CategoryPhaseTimeLeft)
	}
}

// SetTimeLeft applies a server clock correction. Within a phase the clock
// only ever runs down, so a larger value is ignored.
func SetTimeLeft(timeLeftMs int64) Update {
	return func(s *State) Categories {
		return setTimeLeft(s, timeLeftMs)
	}
}

func setTimeLeft(s *State, timeLeftMs int64) Categories {
	if timeLeftMs < 0 || timeLeftMs >= s.TimeLeftMs {
		return 0
	}
	s.TimeLeftMs = timeLeftMs
	return Of(CategoryPhaseTimeLeft)
}

// SetPhaseTimes replaces the phase budgets. Phase kinds the server left out
// keep their default budget.
func SetPhaseTimes(times map[PhaseType]int) Update {
	return func(s *State) Categories {
		next := DefaultPhaseTimes()
		for k, v := range times {
			if k.Valid() && v >= 0 {
				next[k] = v
			}
		}
		s.PhaseTimes = next
		return Of(CategoryPhase)
	}
}

func SetPlayers(players []Player) Update {
	return func(s *State) Categories {
		if slices.Equal(s.Players, players) {
			return 0
		}
		s.Players = slices.Clone(players)
		return Of(CategoryPlayerList)
	}
}

func SetGraves(graves []Grave) Update {
	return func(s *State) Categories {
		if slices.Equal(s.Graves, graves) {
			return 0
		}
		s.Graves = slices.Clone(graves)
		return Of(CategoryGraveyard)
	}
}

// AddChat appends messages to the chat log.
func AddChat(msgs ...ChatMessage) Update {
	return func(s *State) Categories {
		if len(msgs) == 0 {
			return 0
		}
		next := make([]ChatMessage, 0, len(s.Chat)+len(msgs))
		next = append(next, s.Chat...)
		s.Chat = append(next, msgs...)
		return Of(CategoryChat)
	}
}

func SetLobbies(lobbies []LobbyPreview) Update {
	return func(s *State) Categories {
		s.Lobbies = make([]LobbyPreview, len(lobbies))
		for i, l := range lobbies {
			l.Players = slices.Clone(l.Players)
			s.Lobbies[i] = l
		}
		return Of(CategoryLobbyList)
	}
}

// StartSpectating marks the client as watching a game hosted by host.
func StartSpectating(host string) Update {
	return func(s *State) Categories {
		if s.Spectating && s.HostName == host {
			return 0
		}
		s.Spectating = true
		s.HostName = host
		return Of(CategoryGameState)
	}
}

// LeaveGame drops every in-game facet and keeps the lobby list.
func LeaveGame() Update {
	return func(s *State) Categories {
		lobbies := s.Lobbies
		*s = State{Lobbies: lobbies, PhaseTimes: DefaultPhaseTimes()}
		return Of(CategoryGameState, CategoryPhase, CategoryPhaseTimeLeft,
			CategoryPlayerList, CategoryChat, CategoryGraveyard)
	}
}
