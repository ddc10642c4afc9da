package cases

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/storage/models"
)

type fakePersistence struct {
	cases map[string]*models.Case
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{cases: map[string]*models.Case{}}
}

func (f *fakePersistence) GetCase(id string) (*models.Case, error) {
	return f.cases[id], nil
}

func (f *fakePersistence) CaseExists(id string) (bool, error) {
	_, ok := f.cases[id]
	return ok, nil
}

func (f *fakePersistence) ListCasesByTriple(archetypeID, regionID, categoryID string) ([]models.Case, error) {
	var out []models.Case
	for _, cs := range f.cases {
		if cs.ArchetypeID == archetypeID && cs.RegionID == regionID && cs.CategoryID == categoryID {
			out = append(out, *cs)
		}
	}
	return out, nil
}

func (f *fakePersistence) UpsertCase(cs *models.Case) error {
	copied := *cs
	f.cases[cs.ID] = &copied
	return nil
}

func TestGetByIDPersistedWinsOverSeeds(t *testing.T) {
	db := newFakePersistence()
	db.cases["case_ankle_atfl_athlete"] = &models.Case{
		ID:    "case_ankle_atfl_athlete",
		Title: "persisted copy",
	}
	s := NewStore(db)

	cs, err := s.GetByID("case_ankle_atfl_athlete")
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, "persisted copy", cs.Title)
}

func TestGetByIDFallsBackToSeeds(t *testing.T) {
	s := NewStore(newFakePersistence())

	cs, err := s.GetByID("case_ankle_atfl_athlete")
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, "前距腓靭帯損傷", cs.TrueDiagnosis)
}

func TestGetByIDUnknownIsNilNil(t *testing.T) {
	s := NewStore(newFakePersistence())

	cs, err := s.GetByID("case_does_not_exist")
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestFindByTripleMergesSources(t *testing.T) {
	seed := SeedCases[0]
	db := newFakePersistence()
	db.cases["stored_1"] = &models.Case{
		ID:          "stored_1",
		ArchetypeID: seed.ArchetypeID,
		RegionID:    seed.RegionID,
		CategoryID:  seed.CategoryID,
	}
	s := NewStore(db)

	matches, err := s.FindByTriple(seed.ArchetypeID, seed.RegionID, seed.CategoryID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestPickRandomNoMatchIsNil(t *testing.T) {
	s := NewStore(newFakePersistence())

	cs, err := s.PickRandom("nobody", "nowhere", "nothing")
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestSaveGeneratedSuffixesOnCollision(t *testing.T) {
	db := newFakePersistence()
	db.cases["gen_case"] = &models.Case{ID: "gen_case"}
	s := NewStore(db)

	cs := &models.Case{ID: "gen_case", Title: "newer case"}
	require.NoError(t, s.SaveGenerated(cs))

	assert.NotEqual(t, "gen_case", cs.ID)
	assert.True(t, strings.HasPrefix(cs.ID, "gen_case_"))
	assert.Equal(t, "newer case", db.cases[cs.ID].Title)
	// The original record is untouched.
	assert.Empty(t, db.cases["gen_case"].Title)
}

func TestSaveGeneratedWithoutCollisionKeepsID(t *testing.T) {
	db := newFakePersistence()
	s := NewStore(db)

	cs := &models.Case{ID: "fresh_case"}
	require.NoError(t, s.SaveGenerated(cs))
	assert.Equal(t, "fresh_case", cs.ID)
	assert.Contains(t, db.cases, "fresh_case")
}

func TestSaveUpdatesExistingID(t *testing.T) {
	db := newFakePersistence()
	db.cases["case_admin"] = &models.Case{ID: "case_admin", Title: "draft"}
	s := NewStore(db)

	cs := &models.Case{ID: "case_admin", Title: "reviewed"}
	require.NoError(t, s.Save(cs))

	// The id stays fixed and the stored case is replaced.
	assert.Equal(t, "case_admin", cs.ID)
	stored, err := s.GetByID("case_admin")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "reviewed", stored.Title)
}
