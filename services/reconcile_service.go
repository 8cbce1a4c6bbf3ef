package services

import (
	"errors"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"salesnotes-backend/config"
	"salesnotes-backend/utils"
)

// ReconcileService periodically compares the record store's tracking
// rows against the metadata mirrored on the archived objects and logs
// any drift. The mirror is best-effort by design, so this job only
// reports; it never writes to either store.
type ReconcileService struct {
	store   NoteStore
	catalog Catalog
	archive Archive
	logger  *logrus.Logger
}

func NewReconcileService(store NoteStore, catalog Catalog, archive Archive) *ReconcileService {
	return &ReconcileService{
		store:   store,
		catalog: catalog,
		archive: archive,
		logger:  config.GetLogger(),
	}
}

func (s *ReconcileService) StartScheduler() {
	schedule := os.Getenv("RECONCILE_SCHEDULE")
	if schedule == "" {
		schedule = "0 3 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.RunDriftReport); err != nil {
		config.LogError(s.logger, "services", "StartScheduler", "schedule "+schedule, err)
		return
	}
	c.Start()
	s.logger.WithField("schedule", schedule).Info("tracking drift scheduler started")
}

func (s *ReconcileService) RunDriftReport() {
	notes, err := s.store.ListNotes()
	if err != nil {
		config.LogError(s.logger, "services", "RunDriftReport", "listing notes", err)
		return
	}

	for _, note := range notes {
		tracking, err := s.store.GetTracking(note.NoteID)
		if err != nil {
			config.LogError(s.logger, "services", "RunDriftReport", "tracking for "+note.Folio, err)
			continue
		}
		if tracking == nil {
			s.logger.WithField("folio", note.Folio).Warn("note has no tracking record")
			continue
		}

		customer, err := s.catalog.GetCustomer(note.CustomerID)
		if err != nil || customer == nil {
			s.logger.WithField("folio", note.Folio).Warn("customer unresolvable, skipping drift check")
			continue
		}

		key := utils.ArchiveKey(customer.TaxID, note.Folio)
		object, err := s.archive.ReadMetadata(key)
		if errors.Is(err, ErrArtifactMissing) {
			s.logger.WithFields(logrus.Fields{
				"folio": note.Folio,
				"key":   key,
			}).Warn("archived document missing")
			continue
		}
		if err != nil {
			config.LogError(s.logger, "services", "RunDriftReport", "head "+key, err)
			continue
		}

		if object.SendCount != tracking.SendCount || object.Downloaded != tracking.Downloaded {
			s.logger.WithFields(logrus.Fields{
				"folio":            note.Folio,
				"recordSendCount":  tracking.SendCount,
				"objectSendCount":  object.SendCount,
				"recordDownloaded": tracking.Downloaded,
				"objectDownloaded": object.Downloaded,
			}).Warn("tracking metadata drift between record store and archive")
		}
	}
}
