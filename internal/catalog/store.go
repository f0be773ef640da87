package catalog

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NewTime-Creator/radio-app/internal/models"
	"github.com/NewTime-Creator/radio-app/internal/playout"
)

// Store is the engine's view of the relational catalog. It implements
// playout.Library for loads and playout.StateWriter for the durable
// singleton snapshot.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActiveSongs returns the playable rotation, oldest first. Insertion
// order is the playlist order.
func (s *Store) ActiveSongs() ([]playout.Item, error) {
	var songs []models.Song
	err := s.db.Where("is_active = ?", true).Order("created_at asc").Find(&songs).Error
	if err != nil {
		return nil, err
	}

	items := make([]playout.Item, 0, len(songs))
	for _, song := range songs {
		items = append(items, songItem(song))
	}
	return items, nil
}

// ActiveAdSlots returns the active schedule entries with their ads
// joined in. Entries whose ad has been deleted or whose weekday set is
// empty are dropped; they can never fire.
func (s *Store) ActiveAdSlots() ([]playout.AdSlot, error) {
	var schedules []models.AdSchedule
	err := s.db.Preload("Ad").Where("is_active = ?", true).Order("scheduled_time asc").Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	slots := make([]playout.AdSlot, 0, len(schedules))
	for _, sched := range schedules {
		days := sched.DaysList()
		if sched.Ad.ID == 0 || len(days) == 0 {
			continue
		}
		slots = append(slots, playout.AdSlot{
			ID:   sched.ID,
			Ad:   adItem(sched.Ad),
			At:   sched.ScheduledTime,
			Days: days,
		})
	}
	return slots, nil
}

// AdByID resolves an ad for a manual play request.
func (s *Store) AdByID(id uint) (playout.Item, error) {
	var ad models.Ad
	if err := s.db.First(&ad, id).Error; err != nil {
		return playout.Item{}, err
	}
	return adItem(ad), nil
}

// Persist upserts the singleton state row (id=1) so a restarted process
// can see what was on air. Called after every transition; the next
// transition implicitly retries a failed write.
func (s *Store) Persist(snap playout.Snapshot) error {
	row := models.RadioState{
		ID:          1,
		IsPlayingAd: snap.IsPlayingAd,
		UpdatedAt:   time.Now(),
	}
	if snap.CurrentTrack != nil {
		id := snap.CurrentTrack.ID
		row.CurrentSongID = &id
	}
	if snap.CurrentAd != nil {
		id := snap.CurrentAd.ID
		row.CurrentAdID = &id
	}
	if !snap.StartedAt.IsZero() {
		t := snap.StartedAt
		row.StartedAt = &t
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func songItem(song models.Song) playout.Item {
	return playout.Item{
		ID:       song.ID,
		Title:    song.Title,
		Artist:   song.Artist,
		Genre:    song.Genre,
		URL:      song.FileURL,
		Duration: song.Duration,
		Role:     playout.RoleSong,
	}
}

func adItem(ad models.Ad) playout.Item {
	return playout.Item{
		ID:       ad.ID,
		Title:    ad.Title,
		URL:      ad.FileURL,
		Duration: ad.Duration,
		Role:     playout.RoleAd,
	}
}
