package comm

import (
	"encoding/json"
)

// WSMessage is the envelope for every message crossing the socket service,
// in both directions. SocketId identifies the player connection the message
// came from or is addressed to; an empty SocketId on an outbound message
// means broadcast to the whole room.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "room:join", "game:state"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
	RoomId   string          `json:"roomid"`
}

// Inbound message types (web client -> socket service -> game service).
const (
	TypeRoomJoin          = "room:join"
	TypeRoomLeave         = "room:leave"
	TypeAdminStart        = "admin:start"
	TypeAdminNextRound    = "admin:next-round"
	TypeAdminStartNewGame = "admin:start-new-game"
	TypeAdminBackToLobby  = "admin:back-to-lobby"
	TypeAdminKickPlayer   = "admin:kick-player"
	TypeSetConfig         = "game:setConfig"
	TypePlayerSelection   = "game:playerSelection"
	TypeRequestNextCard   = "game:requestNextCard"
	TypeJudgeDecision     = "game:judgeDecision"
)

// Outbound message types (game service -> socket service -> web client).
const (
	TypeGameState  = "game:state"
	TypeGameError  = "game:error"
	TypeGameNotify = "game:notify"
	TypeJoinedRoom = "room:joinedRoom"
	TypeKicked     = "room:kicked"
)

type JoinRequest struct {
	Username    string `json:"username"`
	PictureUrl  string `json:"pictureUrl"`
	OldPlayerId string `json:"oldPlayerId,omitempty"`
}

type SetConfigPayload struct {
	RoomSize   *int     `json:"roomSize,omitempty"`
	ScoreToWin *int     `json:"scoreToWin,omitempty"`
	RoundTime  *int     `json:"roundTime,omitempty"`
	Decks      []string `json:"decks,omitempty"`
}

type PlayerSelectionPayload struct {
	Selection []string `json:"selection"` // answer card ids, in order
}

type JudgeDecisionPayload struct {
	Winner string `json:"winner"`
}

type KickPlayerPayload struct {
	PlayerId string `json:"playerId"`
}

type NotifyPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type JoinedRoomPayload struct {
	RoomId   string `json:"roomId"`
	PlayerId string `json:"playerId"`
}
