// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/session"
)

var ErrPlayerNotConnected = errors.New("player not connected")

// 广播接口
type Broadcaster interface {
	BroadcastToAll(msg *network.Message) error
	SendToPlayer(playerID string, msg *network.Message) error
}

// SessionBroadcaster fans out over the session manager. Delivery is best
// effort and fault isolated: a connection that fails a write is pruned and
// closed, and the remaining recipients still get the frame.
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{sessionManager: sessionManager}
}

func (b *SessionBroadcaster) BroadcastToAll(msg *network.Message) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msg); err != nil {
			b.prune(s, err)
		}
	}
	return nil
}

func (b *SessionBroadcaster) SendToPlayer(playerID string, msg *network.Message) error {
	s, exists := b.sessionManager.GetByPlayerID(playerID)
	if !exists {
		return ErrPlayerNotConnected
	}
	if err := s.Send(msg); err != nil {
		b.prune(s, err)
		return err
	}
	return nil
}

func (b *SessionBroadcaster) prune(s *session.Session, err error) {
	logger.Log.Warnf("Pruning session %s after failed write: %v", s.GetID(), err)
	b.sessionManager.Remove(s.GetID())
	s.Close()
}
