package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salesnotes-backend/models"
)

// NoteStore persists the three record sets behind a sales note. Each
// create is an independent write; there is deliberately no transaction
// spanning the header, item, and tracking writes, so a failure partway
// through leaves earlier writes in place. Reads return nil (not an
// error) when a record is absent.
type NoteStore interface {
	CreateNote(note *models.SalesNote) error
	CreateLineItem(item *models.LineItem) error
	CreateTracking(tracking *models.TrackingMetadata) error
	GetNote(id uuid.UUID) (*models.SalesNote, error)
	ListNotes() ([]models.SalesNote, error)
	ListLineItems(noteID uuid.UUID) ([]models.LineItem, error)
	GetTracking(noteID uuid.UUID) (*models.TrackingMetadata, error)
	MarkDownloaded(noteID uuid.UUID) error
	IncrementSendCount(noteID uuid.UUID) error
}

type GormNoteStore struct {
	db *gorm.DB
}

func NewGormNoteStore(db *gorm.DB) *GormNoteStore {
	return &GormNoteStore{db: db}
}

func (s *GormNoteStore) CreateNote(note *models.SalesNote) error {
	return s.db.Create(note).Error
}

func (s *GormNoteStore) CreateLineItem(item *models.LineItem) error {
	return s.db.Create(item).Error
}

func (s *GormNoteStore) CreateTracking(tracking *models.TrackingMetadata) error {
	return s.db.Create(tracking).Error
}

func (s *GormNoteStore) GetNote(id uuid.UUID) (*models.SalesNote, error) {
	var note models.SalesNote
	if err := s.db.First(&note, "note_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (s *GormNoteStore) ListNotes() ([]models.SalesNote, error) {
	var notes []models.SalesNote
	if err := s.db.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *GormNoteStore) ListLineItems(noteID uuid.UUID) ([]models.LineItem, error) {
	var items []models.LineItem
	if err := s.db.Where("note_id = ?", noteID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormNoteStore) GetTracking(noteID uuid.UUID) (*models.TrackingMetadata, error) {
	var tracking models.TrackingMetadata
	if err := s.db.First(&tracking, "note_id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tracking, nil
}

// MarkDownloaded sets the downloaded flag. Setting it again is a no-op,
// not an error.
func (s *GormNoteStore) MarkDownloaded(noteID uuid.UUID) error {
	return s.db.Model(&models.TrackingMetadata{}).
		Where("note_id = ?", noteID).
		Update("downloaded", true).Error
}

func (s *GormNoteStore) IncrementSendCount(noteID uuid.UUID) error {
	return s.db.Model(&models.TrackingMetadata{}).
		Where("note_id = ?", noteID).
		Updates(map[string]interface{}{
			"send_count":   gorm.Expr("send_count + ?", 1),
			"last_sent_at": time.Now(),
		}).Error
}
