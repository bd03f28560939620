// Package diagserver republishes one file's already-computed lex/parse
// result over HTTP and WebSocket: a JSON dump at GET /statements, and a
// live per-statement event stream at GET /ws. It is a read-only viewer
// — nothing it serves feeds back into how the file was lexed or parsed.
package diagserver

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nasmfront/x64asm/lexer"
	"github.com/nasmfront/x64asm/parser"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local diagnostic tool; no browser-origin restriction needed
	},
}

// Server is the HTTP+WebSocket front for one file's lex/parse result.
type Server struct {
	sourceFile  string
	lines       []lexer.Line
	statements  []parser.Statement
	broadcaster *Broadcaster
	mux         *http.ServeMux
}

// New builds a Server over an already-lexed-and-parsed file.
func New(sourceFile string, lines []lexer.Line, statements []parser.Statement) *Server {
	s := &Server{
		sourceFile:  sourceFile,
		lines:       lines,
		statements:  statements,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("/statements", s.handleStatements)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// ListenAndServe starts the HTTP server on addr. It blocks until the
// server stops (error or signal from the caller's process).
func (s *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return httpServer.ListenAndServe()
}

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	views := make([]*StatementView, 0, len(s.statements))
	for _, stmt := range s.statements {
		views = append(views, newStatementView(stmt))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		log.Printf("diagserver: encode /statements: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("diagserver: websocket upgrade: %v", err)
		return
	}

	ch := s.broadcaster.Subscribe()
	client := &wsClient{conn: conn, events: ch, broadcaster: s.broadcaster}

	go client.writePump()
	go s.replay()
}

// replay re-broadcasts the full statement stream to every currently
// subscribed client — the "live event stream" view of a result that
// was actually computed up front.
func (s *Server) replay() {
	for _, stmt := range s.statements {
		s.broadcaster.Broadcast(StatementEvent{Type: EventStatement, Line: stmt.Line, Statement: newStatementView(stmt)})
	}
	s.broadcaster.Broadcast(StatementEvent{Type: EventDone})
}

type wsClient struct {
	conn        *websocket.Conn
	events      chan StatementEvent
	broadcaster *Broadcaster
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.broadcaster.Unsubscribe(c.events)
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.events:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("diagserver: write event: %v", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
