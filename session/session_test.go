package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/monopoly/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mu   sync.Mutex
	sent []*network.Message
}

func (m *MockConnection) Send(msg *network.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *MockConnection) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
func (m *MockConnection) Close() error                           { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                   { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)    {}
func (m *MockConnection) ReadMessage() (*network.Message, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_BindPlayer(t *testing.T) {
	sess := NewSession("session1", &MockConnection{})

	if sess.Joined() {
		t.Error("A fresh session should not count as joined")
	}
	if sess.PlayerID() != "" {
		t.Errorf("Expected empty player id before join, got %q", sess.PlayerID())
	}

	sess.BindPlayer("alice")
	if !sess.Joined() {
		t.Error("Session should count as joined after binding")
	}
	if sess.PlayerID() != "alice" {
		t.Errorf("Expected player id alice, got %q", sess.PlayerID())
	}
}

func TestManager_GetByPlayerID(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.BindPlayer("alice")
	sess2 := NewSession("session2", &MockConnection{})
	sess2.BindPlayer("bob")
	sess3 := NewSession("session3", &MockConnection{})

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	found, exists := manager.GetByPlayerID("alice")
	if !exists {
		t.Fatal("GetByPlayerID should find alice's session")
	}
	if found != sess1 {
		t.Error("GetByPlayerID should return the bound session instance")
	}

	if _, exists := manager.GetByPlayerID("carol"); exists {
		t.Error("GetByPlayerID should not find an unbound player")
	}
}

func TestSession_SendDelegatesToConnection(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("session1", conn)

	msg, err := network.NewMessage("game-state", map[string]string{"status": "waiting"})
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if err := sess.Send(msg); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("Expected 1 sent message, got %d", len(conn.sent))
	}
	if conn.sent[0].Type != "game-state" {
		t.Errorf("Expected game-state frame, got %s", conn.sent[0].Type)
	}
}

func TestSession_ConcurrentSends(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("session1", conn)

	// Broadcasts and direct sends hit the same session from different
	// goroutines; the activity stamp must stay race-free.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := sess.Send(&network.Message{Type: "game-state"}); err != nil {
					t.Errorf("Send failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := conn.sentCount(); got != 8*50 {
		t.Errorf("Expected 400 sent messages, got %d", got)
	}
}
