package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"StudioIntake/internal/intake"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsPath       = "/ws"
	writeTimeout = 10 * time.Second
	maxMessage   = 8 << 20
)

// Saver stores validated submissions.
type Saver interface {
	Save(intake.Submission) (intake.Record, error)
}

// Peer is a kiosk connected to the desk.
type Peer struct {
	Conn *websocket.Conn
}

// PeerManager tracks the desk's active kiosk connections.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

// NewPeerManager creates a new manager.
func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

// Add registers a newly connected kiosk.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	addr := peer.Conn.RemoteAddr().String()
	pm.peers[addr] = peer
	log.Printf("[DESK] Kiosk connected from %s", addr)
}

// Remove forgets a kiosk.
func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	addr := peer.Conn.RemoteAddr().String()
	delete(pm.peers, addr)
	log.Printf("[DESK] Kiosk %s disconnected", addr)
}

// Count returns the number of connected kiosks.
func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll drops every connection.
func (pm *PeerManager) CloseAll() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for addr, p := range pm.peers {
		p.Conn.Close()
		delete(pm.peers, addr)
	}
}

// Desk receives submissions from kiosks and stores them.
type Desk struct {
	saver    Saver
	peers    *PeerManager
	upgrader websocket.Upgrader

	// OnRecord is called after each record is stored.
	OnRecord func(intake.Record)
}

// NewDesk returns a desk that stores submissions through s.
func NewDesk(s Saver) *Desk {
	return &Desk{
		saver: s,
		peers: NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 << 10,
			WriteBufferSize: 4 << 10,
			// Kiosks are native clients on the LAN, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Peers returns the connection manager.
func (d *Desk) Peers() *PeerManager { return d.peers }

// Handler routes the websocket endpoint and a health check.
func (d *Desk) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(wsPath, d.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// ListenAndServe serves on port until ctx is cancelled.
func (d *Desk) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		d.peers.CloseAll()
	}()
	log.Printf("[DESK] Listening on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("desk: serve: %w", err)
	}
	return nil
}

func (d *Desk) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[DESK] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(maxMessage)
	peer := &Peer{Conn: conn}
	d.peers.Add(peer)
	defer func() {
		d.peers.Remove(peer)
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[DESK] Read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		reply := d.handle(msg)
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[DESK] Reply to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (d *Desk) handle(msg Message) Message {
	log.Printf("[DESK] Received '%s' (%s)", msg.Type, msg.ID)
	if msg.Type != MsgSubmit || msg.Submission == nil {
		return Message{Type: MsgError, ID: msg.ID, Error: fmt.Sprintf("unsupported message %q", msg.Type)}
	}
	rec, err := d.saver.Save(*msg.Submission)
	if err != nil {
		return Message{Type: MsgError, ID: msg.ID, Error: err.Error()}
	}
	if d.OnRecord != nil {
		d.OnRecord(rec)
	}
	return Message{Type: MsgAck, ID: msg.ID, RecordID: rec.ID}
}

// RemoteError is a desk-side failure reported back to the kiosk.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Kiosk is a connection from a tablet to the desk.
type Kiosk struct {
	conn *websocket.Conn
	mu   sync.Mutex
	seq  uint64
	id   string
}

// Dial connects to the desk at addr (host:port).
func Dial(ctx context.Context, addr string) (*Kiosk, error) {
	kioskID := uuid.NewString()[:8]
	url := "ws://" + addr + wsPath
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("kiosk: dial %s: %w", addr, err)
	}
	conn.SetReadLimit(maxMessage)
	log.Printf("[KIOSK] Connected to desk at %s as %s", addr, kioskID)
	return &Kiosk{conn: conn, id: kioskID}, nil
}

// LocalAddr returns the kiosk's end of the connection.
func (k *Kiosk) LocalAddr() net.Addr { return k.conn.LocalAddr() }

// Submit sends sub and waits for the desk's reply. It returns the stored
// record's ID; desk-side failures come back as *RemoteError.
func (k *Kiosk) Submit(ctx context.Context, sub intake.Submission) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.seq++
	id := fmt.Sprintf("%s-%d", k.id, k.seq)

	writeDeadline := time.Now().Add(writeTimeout)
	var readDeadline time.Time
	if d, ok := ctx.Deadline(); ok {
		readDeadline = d
		if d.Before(writeDeadline) {
			writeDeadline = d
		}
	}
	k.conn.SetWriteDeadline(writeDeadline)
	k.conn.SetReadDeadline(readDeadline)

	stop := context.AfterFunc(ctx, func() {
		// Unblock pending reads and writes.
		k.conn.SetReadDeadline(time.Now())
		k.conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	if err := k.conn.WriteJSON(Message{Type: MsgSubmit, ID: id, Submission: &sub}); err != nil {
		return "", k.ctxErr(ctx, fmt.Errorf("kiosk: send: %w", err))
	}
	for {
		var reply Message
		if err := k.conn.ReadJSON(&reply); err != nil {
			return "", k.ctxErr(ctx, fmt.Errorf("kiosk: receive: %w", err))
		}
		if reply.ID != id {
			log.Printf("[KIOSK] Ignoring stale reply %s", reply.ID)
			continue
		}
		switch reply.Type {
		case MsgAck:
			return reply.RecordID, nil
		case MsgError:
			return "", &RemoteError{Message: reply.Error}
		default:
			return "", fmt.Errorf("kiosk: unexpected reply %q", reply.Type)
		}
	}
}

func (k *Kiosk) ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close says goodbye and closes the connection.
func (k *Kiosk) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return k.conn.Close()
}
