package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nightfall/mafiatui/internal/game"
)

// Server packet types.
const (
	PacketLobbyList     = "lobbyList"
	PacketGameState     = "gameState"
	PacketPhase         = "phase"
	PacketPhaseTimeLeft = "phaseTimeLeft"
	PacketPlayerList    = "playerList"
	PacketChatMessages  = "chatMessages"
	PacketGraveyard     = "graveyard"
	PacketYourToken     = "yourToken"
	PacketRejectJoin    = "rejectJoin"
)

// Client packet types.
const (
	PacketLobbyListRequest = "lobbyListRequest"
	PacketSpectate         = "spectate"
	PacketLeave            = "leave"
)

// ErrUnknownPacket is returned by Decode for packet types it does not handle.
var ErrUnknownPacket = errors.New("unknown packet type")

// Event is what a packet means to the client: store updates plus anything
// the UI or session must act on.
type Event struct {
	Updates  []game.Update
	Token    string
	Rejected string
	// Err is set when the connection drops.
	Err error
}

type gameStatePayload struct {
	Host       string                 `json:"host"`
	Phase      game.PhaseState        `json:"phase"`
	TimeLeftMs int64                  `json:"timeLeftMs"`
	PhaseTimes map[game.PhaseType]int `json:"phaseTimes"`
	Players    []game.Player          `json:"players"`
	Graves     []game.Grave           `json:"graves"`
	Chat       []game.ChatMessage     `json:"chat"`
}

type phasePayload struct {
	Phase      game.PhaseState `json:"phase"`
	TimeLeftMs *int64          `json:"timeLeftMs"`
}

type timeLeftPayload struct {
	TimeLeftMs int64 `json:"timeLeftMs"`
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

type spectatePayload struct {
	LobbyID uint32 `json:"lobbyId"`
}

// Decode maps a server packet to an Event.
func Decode(p Packet) (Event, error) {
	var ev Event
	switch p.Type {
	case PacketLobbyList:
		var lobbies []game.LobbyPreview
		if err := unmarshal(p, &lobbies); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{game.SetLobbies(lobbies)}
	case PacketGameState:
		var gs gameStatePayload
		if err := unmarshal(p, &gs); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{
			game.StartSpectating(gs.Host),
			game.SetPhaseTimes(gs.PhaseTimes),
			game.SetPhase(gs.Phase, gs.TimeLeftMs),
			game.SetPlayers(gs.Players),
			game.SetGraves(gs.Graves),
		}
		if len(gs.Chat) > 0 {
			ev.Updates = append(ev.Updates, game.AddChat(gs.Chat...))
		}
	case PacketPhase:
		var ph phasePayload
		if err := unmarshal(p, &ph); err != nil {
			return ev, err
		}
		if !ph.Phase.Type.Valid() {
			return ev, fmt.Errorf("decode %s: invalid phase %q", p.Type, ph.Phase.Type)
		}
		left := int64(-1)
		if ph.TimeLeftMs != nil {
			left = *ph.TimeLeftMs
		}
		ev.Updates = []game.Update{game.SetPhase(ph.Phase, left)}
	case PacketPhaseTimeLeft:
		var tl timeLeftPayload
		if err := unmarshal(p, &tl); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{game.SetTimeLeft(tl.TimeLeftMs)}
	case PacketPlayerList:
		var players []game.Player
		if err := unmarshal(p, &players); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{game.SetPlayers(players)}
	case PacketChatMessages:
		var msgs []game.ChatMessage
		if err := unmarshal(p, &msgs); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{game.AddChat(msgs...)}
	case PacketGraveyard:
		var graves []game.Grave
		if err := unmarshal(p, &graves); err != nil {
			return ev, err
		}
		ev.Updates = []game.Update{game.SetGraves(graves)}
	case PacketYourToken:
		if err := unmarshal(p, &ev.Token); err != nil {
			return ev, err
		}
	case PacketRejectJoin:
		var rj rejectPayload
		if err := unmarshal(p, &rj); err != nil {
			return ev, err
		}
		ev.Rejected = rj.Reason
		if ev.Rejected == "" {
			ev.Rejected = "rejected"
		}
	default:
		return ev, fmt.Errorf("%w: %q", ErrUnknownPacket, p.Type)
	}
	return ev, nil
}

func unmarshal(p Packet, v any) error {
	if len(p.Data) == 0 {
		return fmt.Errorf("decode %s: missing data", p.Type)
	}
	if err := json.Unmarshal(p.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", p.Type, err)
	}
	return nil
}
