package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Clock returns the current time
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// User-visible warnings returned from Load
const (
	WarningCorruptedData = "Saved budget data was corrupted and has been reset to a fresh budget."
	WarningStorageRead   = "Saved budget data could not be read; starting with an empty budget."
	WarningStorageWrite  = "Budget data could not be saved; changes are kept until the next successful save."
)

// LoadResult describes the outcome of Store.Load
type LoadResult struct {
	Document  *domain.Document
	Created   bool   // nothing was stored, a fresh document was created
	Recovered bool   // stored data was corrupt and has been replaced
	Warning   string // message for the user, empty when all went well
}

// Store owns the canonical Document and its durable representation.
// Mutations run with the write lock held for the whole mutate/save/publish
// sequence; readers get deep copies.
type Store struct {
	repo           domain.DocumentRepository
	key            string
	currencyLocale string
	now            Clock
	eventPublisher websocket.EventPublisher

	mu    sync.RWMutex
	doc   *domain.Document
	dirty bool
	// readFailed is set while the stored document could not be read. The
	// in-memory default must never be written over it.
	readFailed bool
}

// NewStore creates a Store persisting under key
func NewStore(repo domain.DocumentRepository, key, currencyLocale string) *Store {
	return &Store{
		repo:           repo,
		key:            key,
		currencyLocale: currencyLocale,
		now:            systemClock,
	}
}

// SetClock replaces the time source
func (s *Store) SetClock(clock Clock) {
	s.now = clock
}

// SetEventPublisher sets the publisher for "state changed" events
func (s *Store) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// Load reads the persisted document. A missing document is created and
// persisted; a corrupt one is discarded and replaced. Load never fails: the
// worst case is a fresh default document plus a warning.
func (s *Store) Load(ctx context.Context) *LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) *LoadResult {
	result := &LoadResult{}
	raw, err := s.repo.Get(ctx, s.key)
	s.readFailed = false
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		s.doc = domain.NewDocument(s.currencyLocale, s.now())
		result.Created = true
		if err := s.saveLocked(ctx); err != nil {
			result.Warning = WarningStorageWrite
		}

	case err != nil:
		log.Error().Err(err).Str("key", s.key).Msg("Failed to read stored document")
		s.doc = domain.NewDocument(s.currencyLocale, s.now())
		s.dirty = false
		s.readFailed = true
		result.Warning = WarningStorageRead

	default:
		doc, parseErr := domain.ParseDocument(raw)
		if parseErr != nil {
			log.Warn().
				Err(parseErr).
				Str("key", s.key).
				Int("bytes", len(raw)).
				Msg("Stored document is corrupted, resetting to defaults")
			s.doc = domain.NewDocument(s.currencyLocale, s.now())
			result.Recovered = true
			result.Warning = WarningCorruptedData
			persisted := s.saveLocked(ctx) == nil
			event := websocket.DocumentRecovered(map[string]string{"reason": parseErr.Error()})
			event.Persisted = persisted
			s.publishEvent(event)
		} else {
			s.doc = doc
			s.dirty = false
		}
	}

	result.Document = s.doc.Clone()
	return result
}

// ensureReadableLocked retries a failed read before any write. While the
// stored document stays unreadable, writes are refused with
// domain.ErrStorageUnreadable and nothing changes.
func (s *Store) ensureReadableLocked(ctx context.Context) error {
	if !s.readFailed {
		return nil
	}
	s.loadLocked(ctx)
	if s.readFailed {
		return domain.ErrStorageUnreadable
	}
	log.Info().Str("key", s.key).Msg("Stored document readable again, reloaded")
	return nil
}

// ReadFailed reports whether the stored document could not be read and
// writes are currently refused
func (s *Store) ReadFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readFailed
}

// Save stamps meta.lastUpdated and writes the whole document
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.ensureReadableLocked(ctx); err != nil {
		return err
	}
	s.ensureLoadedLocked()
	s.doc.Meta.LastUpdated = s.now()

	data, err := s.doc.Marshal()
	if err == nil {
		err = s.repo.Put(ctx, s.key, data)
	}
	if err != nil {
		s.dirty = true
		log.Error().Err(err).Str("key", s.key).Msg("Failed to persist document")
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	s.dirty = false
	return nil
}

// Reset clears persisted state. The in-memory document is replaced by an
// unsaved default; callers reinitialize with Load.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to clear stored document")
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	s.doc = domain.NewDocument(s.currencyLocale, s.now())
	s.dirty = false
	s.readFailed = false

	log.Info().Str("key", s.key).Msg("Document reset")
	s.publishEvent(websocket.DocumentReset(nil))
	return nil
}

// Snapshot returns a deep copy of the current document
func (s *Store) Snapshot() *domain.Document {
	s.mu.RLock()
	if s.doc != nil {
		defer s.mu.RUnlock()
		return s.doc.Clone()
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked()
	return s.doc.Clone()
}

// Dirty reports whether the in-memory document has changes that failed to
// persist
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// mutate runs fn against the owned document, persists, and publishes the
// returned event. fn must validate before changing anything: an error from
// fn means the document is untouched. A persistence failure keeps the
// in-memory change and is returned wrapped in domain.ErrPersistenceFailed.
func (s *Store) mutate(ctx context.Context, fn func(doc *domain.Document) (websocket.Event, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReadableLocked(ctx); err != nil {
		return err
	}
	s.ensureLoadedLocked()
	event, err := fn(s.doc)
	if err != nil {
		return err
	}

	saveErr := s.saveLocked(ctx)
	event.Persisted = saveErr == nil
	s.publishEvent(event)
	return saveErr
}

func (s *Store) ensureLoadedLocked() {
	if s.doc == nil {
		s.doc = domain.NewDocument(s.currencyLocale, s.now())
	}
}
