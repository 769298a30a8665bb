package handlers

import (
	"encoding/json"
	"log"
	"siege-planner/models"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Client - 웹 클라이언트 연결과 전송 큐
type Client struct {
	Conn *websocket.Conn
	send chan []byte
}

// ClientManager - 웹소켓 클라이언트 등록/해제와 브로드캐스트
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// Manager - 전역 클라이언트 관리자
var Manager = NewClientManager()

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Start - 클라이언트 관리 루프 시작 (고루틴으로 실행)
func (manager *ClientManager) Start() {
	log.Println("✅ ClientManager 시작")
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: web (%s)", client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.remove(conn)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

// remove - 클라이언트 해제 후 전송 큐 닫기
func (manager *ClientManager) remove(conn *websocket.Conn) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if client, ok := manager.clients[conn]; ok {
		delete(manager.clients, conn)
		close(client.send)
		log.Printf("클라이언트 해제: web (%s)", conn.RemoteAddr())
	}
}

// handleBroadcast hands the message to every client's writer; a client whose
// queue is full is dropped.
func (manager *ClientManager) handleBroadcast(message []byte) {
	var slow []*websocket.Conn

	manager.mutex.RLock()
	for conn, client := range manager.clients {
		select {
		case client.send <- message:
		default:
			slow = append(slow, conn)
		}
	}
	manager.mutex.RUnlock()

	for _, conn := range slow {
		log.Printf("⚠️ 전송 큐 가득 참, 연결 해제 (%s)", conn.RemoteAddr())
		manager.remove(conn)
	}
}

// BroadcastMessage - 모든 클라이언트에 메시지 전송 (큐가 가득 차면 버림)
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ JSON 마샬링 오류: %v", err)
		return
	}

	select {
	case manager.broadcast <- data:
	default:
		log.Println("⚠️ broadcast 채널 가득 참")
	}
}

// GetClientCount - 연결된 클라이언트 수 반환
func (manager *ClientManager) GetClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// writePump - 클라이언트별 전송 루프
func (c *Client) writePump() {
	for msg := range c.send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("전송 실패 (web): %v", err)
			return
		}
	}
}

// HandleWebClientWebSocket - Web 클라이언트 WebSocket Handler
//
// Web clients only listen; the server pushes route updates, tick decisions
// and episode summaries.
func HandleWebClientWebSocket(c *websocket.Conn) {
	client := &Client{
		Conn: c,
		send: make(chan []byte, 64),
	}

	// 연결 확인 메시지 전송
	_ = c.WriteJSON(models.NewMessage(models.MessageTypeSystemInfo, "", models.SystemInfo{
		ConnectedClients: Manager.GetClientCount() + 1,
		Episodes:         episodeCount(),
		ServerTime:       time.Now(),
		Uptime:           int64(time.Since(startedAt).Seconds()),
	}))

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
		_ = c.Close()
	}()

	go client.writePump()

	for {
		var msg models.WebSocketMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("웹 메시지 읽기 오류: %v", err)
			break
		}
		log.Printf("웹 메시지: %s - %+v", msg.Type, msg.Data)
	}
}
