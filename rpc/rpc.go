package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes cross-game statistics over net/rpc.
type StatsService struct {
	history *services.HistoryService
}

func NewStatsService(history *services.HistoryService) *StatsService {
	return &StatsService{history: history}
}

type GetPlayerStatsArgs struct {
	UserID string
}

type GetPlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (s *StatsService) GetPlayerStats(args *GetPlayerStatsArgs, reply *GetPlayerStatsReply) error {
	stats, err := s.history.GetPlayerStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type GetLeaderboardArgs struct {
	Limit int
}

type GetLeaderboardReply struct {
	Entries []models.LeaderboardEntry
}

func (s *StatsService) GetLeaderboard(args *GetLeaderboardArgs, reply *GetLeaderboardReply) error {
	entries, err := s.history.Leaderboard(args.Limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}
