package room

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"familyties-server/pkg/snapshot"
)

// PitBoss owns the registry of rooms. It is created once at process start;
// rooms are created on demand and live until the process exits.
type PitBoss struct {
	logger     logrus.FieldLogger
	store      *snapshot.Store
	holdWindow time.Duration

	lock    sync.RWMutex
	dealers map[string]*Dealer

	// saved holds the latest snapshot data per room; the whole set is written
	// on every room change
	saved map[string]snapshot.Room
}

// NewPitBoss returns a new room registry.
// store may be nil to disable persistence.
func NewPitBoss(store *snapshot.Store, holdWindow time.Duration) *PitBoss {
	return &PitBoss{
		logger:     logrus.StandardLogger(),
		store:      store,
		holdWindow: holdWindow,
		dealers:    make(map[string]*Dealer),
		saved:      make(map[string]snapshot.Room),
	}
}

// CreateRoom creates a room with the given ID, or returns the existing room
// if the ID is already taken. An empty ID gets a generated 6-character one.
func (p *PitBoss) CreateRoom(id, name string) *Dealer {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		id = strings.ToUpper(uuid.New().String()[0:6])
	}

	p.lock.Lock()
	if dealer, found := p.dealers[id]; found {
		p.lock.Unlock()
		return dealer
	}

	dealer := p.startRoom(NewRoom(id, name, p.logger.WithField("room", id)))
	p.lock.Unlock()

	p.roomChanged(dealer.room.snapshotData())

	p.logger.WithField("room", id).Info("room created")
	return dealer
}

// Restore recreates rooms from a snapshot. Every restored room resumes at
// the lobby phase with its scores and chat, but no seats, hands, or bids.
func (p *PitBoss) Restore(rooms []snapshot.Room) {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, data := range rooms {
		if _, found := p.dealers[data.ID]; found {
			continue
		}

		room := NewRoom(data.ID, data.Name, p.logger.WithField("room", data.ID))
		room.Restore(data)

		p.startRoom(room)
		p.saved[data.ID] = data
	}

	p.logger.WithField("rooms", len(rooms)).Info("restored rooms from snapshot")
}

// startRoom must be called with the lock held
func (p *PitBoss) startRoom(room *Room) *Dealer {
	dealer := NewDealer(p, room, p.holdWindow)
	dealer.StartShift()
	p.dealers[room.ID] = dealer

	return dealer
}

// Dealer returns the dealer for the room ID
func (p *PitBoss) Dealer(id string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, found := p.dealers[strings.ToUpper(id)]
	return dealer, found
}

// Directory returns a listing of all known rooms, oldest first
func (p *PitBoss) Directory() []Info {
	p.lock.RLock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		dealers = append(dealers, dealer)
	}
	p.lock.RUnlock()

	infos := make([]Info, len(dealers))
	for i, dealer := range dealers {
		infos[i] = dealer.Info()
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}

		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})

	return infos
}

// roomChanged records a room's latest snapshot data and rewrites the
// snapshot file. Persistence failures are logged and never fatal.
func (p *PitBoss) roomChanged(data snapshot.Room) {
	p.lock.Lock()
	p.saved[data.ID] = data

	rooms := make([]snapshot.Room, 0, len(p.saved))
	for _, room := range p.saved {
		rooms = append(rooms, room)
	}
	p.lock.Unlock()

	if p.store == nil {
		return
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	if err := p.store.Save(rooms); err != nil {
		p.logger.WithError(err).Error("could not persist room snapshot")
	}
}
