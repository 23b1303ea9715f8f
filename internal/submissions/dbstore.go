package submissions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBStore persists submissions in a gorm-backed table (Postgres or the
// embedded sqlite file). Each mutation is its own transaction, so there is
// no whole-document rewrite and no lost-update window between processes.
type DBStore struct {
	db *gorm.DB

	// serializes Append so assigned timestamps stay non-decreasing
	mu     sync.Mutex
	lastTS time.Time
}

func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&Submission{}); err != nil {
		return nil, err
	}
	return &DBStore{db: db}, nil
}

func (s *DBStore) List() ([]Submission, error) {
	subs := []Submission{}
	if err := s.db.Order("timestamp").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *DBStore) Append(in SubmissionInput) (*Submission, error) {
	s.mu.Lock()
	now := time.Now().UTC()
	if now.Before(s.lastTS) {
		now = s.lastTS
	}
	s.lastTS = now
	s.mu.Unlock()

	sub := Submission{
		ID:                 uuid.NewString(),
		Crop:               in.Crop,
		Location:           in.Location,
		Date:               in.Date,
		Lat:                in.Lat,
		Lng:                in.Lng,
		RiskLevel:          in.RiskLevel,
		ClimaticConditions: in.ClimaticConditions,
		FullAnalysis:       in.FullAnalysis,
		Choice:             nil,
		Timestamp:          now,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *DBStore) UpdateChoice(id string, choice *string) (*Submission, error) {
	var sub Submission
	err := s.db.First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&sub).Update("choice", choice).Error; err != nil {
		return nil, err
	}
	sub.Choice = choice
	return &sub, nil
}

func (s *DBStore) Clear() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Submission{}).Error
}

func (s *DBStore) Aggregate() (*Stats, error) {
	subs, err := s.List()
	if err != nil {
		return nil, err
	}
	return ComputeStats(subs), nil
}
