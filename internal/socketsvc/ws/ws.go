package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/ccc-cards/card-services/internal/comm"
	"github.com/ccc-cards/card-services/internal/socketsvc/broker"
)

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
	roomMap sync.Map // to keep track of roomId with socketId
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// SocketMessage handles a message from a web client: room membership is
// tracked here, everything else is stamped with the socket id and relayed
// to the game service.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeRoomJoin:
		if message.RoomId == "" {
			log.Errorf("join from socket %s without room id", socketId)
			return
		}
		s.StoreRoom(socketId, message.RoomId)
		s.forward(socketId, message)
	case comm.TypeRoomLeave:
		s.forward(socketId, message)
		s.roomMap.Delete(socketId)
	case comm.TypeSetConfig,
		comm.TypeAdminStart,
		comm.TypeAdminNextRound,
		comm.TypeAdminStartNewGame,
		comm.TypeAdminBackToLobby,
		comm.TypeAdminKickPlayer,
		comm.TypePlayerSelection,
		comm.TypeRequestNextCard,
		comm.TypeJudgeDecision:
		s.forward(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// forward relays a client message to the game service over NATS. The room
// id comes from the tracked membership so a client cannot spoof another
// room after joining.
func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId
	if roomId, ok := s.GetRoom(socketId); ok {
		msg.RoomId = roomId
	}
	if msg.RoomId == "" {
		log.Errorf("dropping %s from socket %s: no room", msg.Type, socketId)
		return
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	topic := "socket.service"
	if err := s.Broker.Publish(topic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", topic, err)
	}
}

// HandleDisconnect tells the game service the player is gone and drops the
// socket from the local maps.
func (s *Ws) HandleDisconnect(socketId string) {
	if roomId, ok := s.GetRoom(socketId); ok {
		leave := &comm.WSMessage{
			Type:     comm.TypeRoomLeave,
			SocketId: socketId,
			RoomId:   roomId,
		}
		if bytes, err := json.Marshal(leave); err == nil {
			topic := "socket.service"
			if err := s.Broker.Publish(topic, bytes); err != nil {
				log.Errorf("Failed to publish leave for socket %s: %v", socketId, err)
			}
		}
	}

	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}
