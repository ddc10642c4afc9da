package cases

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/internal/storage/sqlite"
	"github.com/clinsim/backend/pkg/logger"
)

// Persistence is the slice of the storage client the case store needs.
type Persistence interface {
	GetCase(id string) (*models.Case, error)
	CaseExists(id string) (bool, error)
	ListCasesByTriple(archetypeID, regionID, categoryID string) ([]models.Case, error)
	UpsertCase(cs *models.Case) error
}

var _ Persistence = (*sqlite.Client)(nil)

// Store resolves cases from persistent storage first, then from the built-in
// seed list. Cases are immutable after creation, so no locking is needed on
// the read paths.
type Store struct {
	db    Persistence
	seeds []models.Case
}

func NewStore(db Persistence) *Store {
	return &Store{db: db, seeds: SeedCases}
}

// GetByID checks persisted cases, then the seed list, returning the first
// match. A nil result with nil error means not found.
func (s *Store) GetByID(id string) (*models.Case, error) {
	if s.db != nil {
		cs, err := s.db.GetCase(id)
		if err != nil {
			return nil, err
		}
		if cs != nil {
			return cs, nil
		}
	}

	for i := range s.seeds {
		if s.seeds[i].ID == id {
			cs := s.seeds[i]
			return &cs, nil
		}
	}

	return nil, nil
}

// FindByTriple gathers every persisted and seed case matching the
// classification triple.
func (s *Store) FindByTriple(archetypeID, regionID, categoryID string) ([]models.Case, error) {
	var matches []models.Case

	if s.db != nil {
		stored, err := s.db.ListCasesByTriple(archetypeID, regionID, categoryID)
		if err != nil {
			return nil, err
		}
		matches = append(matches, stored...)
	}

	for _, cs := range s.seeds {
		if cs.ArchetypeID == archetypeID && cs.RegionID == regionID && cs.CategoryID == categoryID {
			matches = append(matches, cs)
		}
	}

	return matches, nil
}

// PickRandom returns a random case for the triple, or nil when none exist.
func (s *Store) PickRandom(archetypeID, regionID, categoryID string) (*models.Case, error) {
	matches, err := s.FindByTriple(archetypeID, regionID, categoryID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	cs := matches[rand.Intn(len(matches))]
	return &cs, nil
}

// Save persists a case via atomic upsert. Re-saving an existing id replaces
// the stored case, which is what the admin review flow relies on.
func (s *Store) Save(cs *models.Case) error {
	if s.db == nil {
		return fmt.Errorf("no persistence configured")
	}
	return s.db.UpsertCase(cs)
}

// SaveGenerated persists a freshly generated case. Model-chosen ids can
// collide with already stored cases, so an occupied id gets a random numeric
// suffix first; this is a best-effort uniqueness heuristic, not a guarantee.
func (s *Store) SaveGenerated(cs *models.Case) error {
	if s.db == nil {
		return fmt.Errorf("no persistence configured")
	}

	exists, err := s.db.CaseExists(cs.ID)
	if err != nil {
		return err
	}
	if exists {
		newID := fmt.Sprintf("%s_%d", cs.ID, rand.Intn(1000))
		logger.Warn("Case id collision, suffixing",
			zap.String("requested_id", cs.ID),
			zap.String("assigned_id", newID),
		)
		cs.ID = newID
	}

	return s.db.UpsertCase(cs)
}
