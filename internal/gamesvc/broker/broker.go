package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/ccc-cards/card-services/internal/comm"
	"github.com/ccc-cards/card-services/internal/gamesvc/game"
	"github.com/ccc-cards/card-services/internal/gamesvc/service"
)

// Broker bridges the socket relay and the room manager: inbound messages
// from "socket.service" dispatch to room commands, outbound state goes to
// "game.service". It is also the rooms' Publisher.
type Broker struct {
	Conn           *nats.Conn
	Manager        *game.Manager
	HistoryService *service.HistoryService
}

func NewBroker(nc *nats.Conn, historyService *service.HistoryService) *Broker {
	return &Broker{
		Conn:           nc,
		HistoryService: historyService,
	}
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	err := json.Unmarshal(msgNat.Data, &msg)
	if err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	if msg.RoomId == "" {
		log.Errorf("message %s without room id", msg.Type)
		return
	}

	// Only a join may create the room. Everything else targets a live one.
	var room *game.Room
	if msg.Type == comm.TypeRoomJoin {
		room = b.Manager.GetOrCreate(msg.RoomId)
	} else {
		room = b.Manager.Get(msg.RoomId)
		if room == nil {
			b.SendError(msg.RoomId, msg.SocketId, "room not found")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case comm.TypeRoomJoin:
		var req comm.JoinRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Errorf("Error decoding join request: %s", err)
			return
		}
		err = room.Join(msg.SocketId, req.Username, req.PictureUrl, req.OldPlayerId)
	case comm.TypeRoomLeave:
		room.Leave(msg.SocketId)
	case comm.TypeSetConfig:
		var req comm.SetConfigPayload
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Errorf("Error decoding config: %s", err)
			return
		}
		err = room.SetConfig(msg.SocketId, game.ConfigUpdate{
			RoomSize:   req.RoomSize,
			ScoreToWin: req.ScoreToWin,
			RoundTime:  req.RoundTime,
			Decks:      req.Decks,
		})
	case comm.TypeAdminStart:
		err = room.StartGame(ctx, msg.SocketId)
	case comm.TypeAdminNextRound:
		err = room.AdvanceRound(ctx, msg.SocketId)
	case comm.TypeAdminStartNewGame:
		err = room.StartNewGame(ctx, msg.SocketId)
	case comm.TypeAdminBackToLobby:
		err = room.BackToLobby(msg.SocketId)
	case comm.TypeAdminKickPlayer:
		var req comm.KickPlayerPayload
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Errorf("Error decoding kick request: %s", err)
			return
		}
		err = room.KickPlayer(msg.SocketId, req.PlayerId)
	case comm.TypePlayerSelection:
		var req comm.PlayerSelectionPayload
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Errorf("Error decoding selection: %s", err)
			return
		}
		err = room.SubmitAnswers(msg.SocketId, req.Selection)
	case comm.TypeRequestNextCard:
		err = room.RevealNext(msg.SocketId)
	case comm.TypeJudgeDecision:
		var req comm.JudgeDecisionPayload
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Errorf("Error decoding decision: %s", err)
			return
		}
		err = room.JudgeDecide(msg.SocketId, req.Winner)
	default:
		log.Errorf("Unknown message type %s", msg.Type)
		return
	}

	if err != nil {
		log.Infof("room %s: %s rejected: %v", msg.RoomId, msg.Type, err)
		b.SendError(msg.RoomId, msg.SocketId, err.Error())
		if msg.Type == comm.TypeRoomJoin {
			b.Manager.ReapIfEmpty(msg.RoomId)
		}
	}
}

// ---- game.Publisher ----

// PublishState broadcasts a snapshot to the whole room. A finished game is
// also archived; the insert runs off the room's lock.
func (b *Broker) PublishState(roomID string, state *game.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		log.Errorf("PublishState unable to marshal state: %s", err)
		return
	}
	b.publishEnvelope(comm.TypeGameState, data, roomID, "")

	if state.RoomStatus == game.PhaseFinished && b.HistoryService != nil {
		rec := service.RecordFromState(roomID, state)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := b.HistoryService.ArchiveFinished(ctx, rec); err != nil {
				log.Errorf("Error archiving match for room %s: %s", roomID, err)
			}
		}()
	}
}

func (b *Broker) NotifyRoom(roomID, message string) {
	data, err := json.Marshal(comm.NotifyPayload{Message: message})
	if err != nil {
		log.Errorf("NotifyRoom unable to marshal payload: %s", err)
		return
	}
	b.publishEnvelope(comm.TypeGameNotify, data, roomID, "")
}

func (b *Broker) SendError(roomID, playerID, message string) {
	data, err := json.Marshal(comm.ErrorPayload{Message: message})
	if err != nil {
		log.Errorf("SendError unable to marshal payload: %s", err)
		return
	}
	b.publishEnvelope(comm.TypeGameError, data, roomID, playerID)
}

func (b *Broker) SendJoined(roomID, playerID string) {
	data, err := json.Marshal(comm.JoinedRoomPayload{RoomId: roomID, PlayerId: playerID})
	if err != nil {
		log.Errorf("SendJoined unable to marshal payload: %s", err)
		return
	}
	b.publishEnvelope(comm.TypeJoinedRoom, data, roomID, playerID)
}

func (b *Broker) SendKicked(roomID, playerID string) {
	data, err := json.Marshal(comm.NotifyPayload{Message: "You were removed from the room"})
	if err != nil {
		log.Errorf("SendKicked unable to marshal payload: %s", err)
		return
	}
	b.publishEnvelope(comm.TypeKicked, data, roomID, playerID)
}

// publishEnvelope sends one WSMessage to the socket service. An empty
// socketId means broadcast to the room.
func (b *Broker) publishEnvelope(msgType string, data json.RawMessage, roomID, socketId string) {
	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
		RoomId:   roomID,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	topic := "game.service"
	b.Publish(topic, payload)
}

// consume message from socket service
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
