// memory предоставляет in-memory реализацию всех контрактов storage.
// Используется драйвером storage.driver=memory и тестами воркера.
//
// SetFault позволяет подменять результат любой операции по её имени
// (например "photos.mark_copy_complete" или "leaderboards.insert.week"),
// чтобы воспроизводить отказы квоты/троттлинга.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// Имена операций для SetFault и журнала вызовов.
const (
	OpPhotoGet             = "photos.get"
	OpPhotoMarkUploaded    = "photos.mark_uploaded"
	OpPhotoMarkCopy        = "photos.mark_copy_complete"
	OpLeaderboardInsert    = "leaderboards.insert."
	OpUserGet              = "users.get"
	OpUserSetProfilePhoto  = "users.set_profile_photo"
	OpUserUpdateRegStatus  = "users.update_registration_status"
	OpFeedUpsert           = "feed.upsert"
	OpFeedList             = "feed.list"
	OpFeedDelete           = "feed.delete"
	OpBlobOpenIncoming     = "blobs.open_incoming"
	OpBlobPutServed        = "blobs.put_served"
	defaultServedURLPrefix = "memory://served/"
)

// FaultFunc возвращает ошибку, которую должна вернуть операция op, либо nil.
type FaultFunc func(op string) error

type leaderboardKey struct {
	category string
	photoID  uuid.UUID
}

// Store — потокобезопасное in-memory хранилище.
type Store struct {
	mu sync.Mutex

	photos       map[uuid.UUID]models.Photo
	users        map[uuid.UUID]models.User
	leaderboards map[models.Window]map[leaderboardKey]models.LeaderboardEntry
	counters     map[models.Window]int64
	feed         map[string]models.FeedItem
	incoming     map[string][]byte
	served       map[string][]byte

	fault FaultFunc
	calls []string
}

// New создаёт пустое хранилище.
func New() *Store {
	lb := make(map[models.Window]map[leaderboardKey]models.LeaderboardEntry, len(models.Windows))
	for _, w := range models.Windows {
		lb[w] = make(map[leaderboardKey]models.LeaderboardEntry)
	}

	return &Store{
		photos:       make(map[uuid.UUID]models.Photo),
		users:        make(map[uuid.UUID]models.User),
		leaderboards: lb,
		counters:     make(map[models.Window]int64),
		feed:         make(map[string]models.FeedItem),
		incoming:     make(map[string][]byte),
		served:       make(map[string][]byte),
	}
}

// SetFault устанавливает (или снимает при nil) инжектор отказов.
func (s *Store) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// Calls возвращает журнал вызванных операций (включая отказавшие).
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// ResetCalls очищает журнал вызовов.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// enter фиксирует вызов и спрашивает инжектор. Вызывается под s.mu.
func (s *Store) enter(op string) error {
	s.calls = append(s.calls, op)
	if s.fault == nil {
		return nil
	}

	return s.fault(op)
}

// PutPhoto кладёт запись фото без проверок (подготовка тестов).
func (s *Store) PutPhoto(p models.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[p.ID] = p
}

// DeletePhoto удаляет запись фото.
func (s *Store) DeletePhoto(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, id)
}

// PutUser кладёт пользователя.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutIncoming кладёт исходный объект в incoming-бакет.
func (s *Store) PutIncoming(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incoming[key] = append([]byte(nil), data...)
}

// PutLegacyFeedItem кладёт элемент ленты как есть, минуя upsert (legacy-продюсер).
func (s *Store) PutLegacyFeedItem(item models.FeedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed[item.ID] = item
}

// Served возвращает опубликованный объект.
func (s *Store) Served(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.served[key]

	return append([]byte(nil), b...), ok
}

// ServedKeys возвращает отсортированные ключи served-бакета.
func (s *Store) ServedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.served))
	for k := range s.served {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Entries возвращает записи окна, отсортированные по (category, photo_id).
func (s *Store) Entries(window models.Window) []models.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.LeaderboardEntry, 0, len(s.leaderboards[window]))
	for _, e := range s.leaderboards[window] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].PhotoID.String() < out[j].PhotoID.String()
	})

	return out
}

// FeedItems возвращает все элементы ленты (без дедупликации).
func (s *Store) FeedItems() []models.FeedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.FeedItem, 0, len(s.feed))
	for _, it := range s.feed {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Проверка выполнения контрактов.
var (
	_ storage.PhotosStorage = (*Store)(nil)
	_ storage.Leaderboards  = (*Store)(nil)
	_ storage.Users         = (*Store)(nil)
	_ storage.Feed          = (*Store)(nil)
	_ storage.Blobs         = (*Store)(nil)
)
