package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
	"github.com/convene-app/convene/internal/repository"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]models.User)}
}

func (s *stubUserRepo) add(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type stubTopicRepo struct {
	mu     sync.Mutex
	topics map[string]models.Topic
	nextID uint
}

func newStubTopicRepo() *stubTopicRepo {
	return &stubTopicRepo{topics: make(map[string]models.Topic)}
}

func (s *stubTopicRepo) GetOrCreate(_ context.Context, name string) (models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topic, ok := s.topics[name]; ok {
		return topic, nil
	}
	s.nextID++
	topic := models.Topic{ID: s.nextID, Name: name}
	s.topics[name] = topic
	return topic, nil
}

func (s *stubTopicRepo) List(_ context.Context, _ string) ([]models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]models.Topic, 0, len(s.topics))
	for _, topic := range s.topics {
		topics = append(topics, topic)
	}
	return topics, nil
}

func (s *stubTopicRepo) ListFirst(ctx context.Context, limit int) ([]models.Topic, error) {
	topics, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics, nil
}

func (s *stubTopicRepo) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.topics)), nil
}

type stubRoomRepo struct {
	mu           sync.Mutex
	rooms        map[uint]models.Room
	participants map[uint][]uint
	nextID       uint
	updated      bool
	deleted      bool
}

func newStubRoomRepo() *stubRoomRepo {
	return &stubRoomRepo{
		rooms:        make(map[uint]models.Room),
		participants: make(map[uint][]uint),
	}
}

func (s *stubRoomRepo) add(room models.Room) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	room.ID = s.nextID
	s.rooms[room.ID] = room
	return room
}

func (s *stubRoomRepo) Search(_ context.Context, _ string) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *stubRoomRepo) Count(_ context.Context, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rooms)), nil
}

func (s *stubRoomRepo) GetByID(_ context.Context, id uint) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (s *stubRoomRepo) GetWithMessages(ctx context.Context, id uint) (models.Room, error) {
	return s.GetByID(ctx, id)
}

func (s *stubRoomRepo) ListByHost(_ context.Context, hostID uint) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []models.Room
	for _, room := range s.rooms {
		if room.HostID == hostID {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (s *stubRoomRepo) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	room.ID = s.nextID
	s.rooms[room.ID] = *room
	return nil
}

func (s *stubRoomRepo) Update(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rooms[room.ID] = *room
	s.updated = true
	return nil
}

func (s *stubRoomRepo) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.rooms, id)
	s.deleted = true
	return nil
}

func (s *stubRoomRepo) AddParticipant(_ context.Context, roomID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[roomID] = append(s.participants[roomID], userID)
	return nil
}

type stubMessageRepo struct {
	mu             sync.Mutex
	messages       map[uint]models.Message
	order          []uint
	nextID         uint
	lastTopicQuery string
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{messages: make(map[uint]models.Message)}
}

func (s *stubMessageRepo) add(message models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	message.ID = s.nextID
	s.messages[message.ID] = message
	s.order = append(s.order, message.ID)
	return message
}

func (s *stubMessageRepo) Create(_ context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	message.ID = s.nextID
	s.messages[message.ID] = *message
	s.order = append(s.order, message.ID)
	return nil
}

func (s *stubMessageRepo) GetByID(_ context.Context, id uint) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.messages[id]
	if !ok {
		return models.Message{}, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (s *stubMessageRepo) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *stubMessageRepo) ListAll(_ context.Context) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]models.Message, 0, len(s.messages))
	for _, id := range s.order {
		if message, ok := s.messages[id]; ok {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (s *stubMessageRepo) ListByUser(_ context.Context, userID uint) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []models.Message
	for _, id := range s.order {
		if message, ok := s.messages[id]; ok && message.UserID == userID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (s *stubMessageRepo) RecentByTopicName(_ context.Context, query string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTopicQuery = query
	var messages []models.Message
	for i := len(s.order) - 1; i >= 0 && len(messages) < limit; i-- {
		if message, ok := s.messages[s.order[i]]; ok {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (s *stubRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	s.revoked[jti] = ttl
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}
