package tracker

import (
	"sync"
)

// StaticPlayers is a PlayerSource whose list is set by the caller.
type StaticPlayers struct {
	mu      sync.RWMutex
	players []Player
}

func NewStaticPlayers() *StaticPlayers {
	return &StaticPlayers{}
}

func (s *StaticPlayers) Set(players []Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]Player(nil), players...)
}

func (s *StaticPlayers) Add(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.players {
		if existing.ID == p.ID {
			return
		}
	}
	s.players = append(s.players, p)
}

func (s *StaticPlayers) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Player(nil), s.players...)
}
