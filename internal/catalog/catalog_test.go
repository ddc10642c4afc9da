package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindArchetype(t *testing.T) {
	a := FindArchetype("athlete")
	require.NotNil(t, a)
	assert.Equal(t, "athlete", a.ID)

	assert.Nil(t, FindArchetype("no_such_archetype"))
}

func TestRegionsForNavigationGroupOverride(t *testing.T) {
	t.Run("archetype with navigation groups uses its own tree", func(t *testing.T) {
		for i := range Archetypes {
			if len(Archetypes[i].NavigationGroups) == 0 {
				continue
			}
			regions := RegionsFor(&Archetypes[i])
			assert.Equal(t, Archetypes[i].NavigationGroups, regions)
			return
		}
		t.Skip("no archetype with navigation groups in catalog")
	})

	t.Run("nil archetype falls back to default regions", func(t *testing.T) {
		assert.Equal(t, BodyRegions, RegionsFor(nil))
	})
}

func TestCategoryLabel(t *testing.T) {
	region := FindRegion(BodyRegions, BodyRegions[0].ID)
	require.NotNil(t, region)
	require.NotEmpty(t, region.Categories)

	t.Run("known category resolves to its label", func(t *testing.T) {
		c := region.Categories[0]
		assert.Equal(t, c.Label, CategoryLabel(region, c.ID))
	})

	t.Run("unknown category falls back to the raw id", func(t *testing.T) {
		assert.Equal(t, "totally_unknown", CategoryLabel(region, "totally_unknown"))
	})

	t.Run("nil region falls back to the raw id", func(t *testing.T) {
		assert.Equal(t, "acl", CategoryLabel(nil, "acl"))
	})
}

func TestCategoryLabelSearchesSubcategories(t *testing.T) {
	region := &BodyRegion{
		ID:    "knee",
		Label: "膝",
		Categories: []Category{
			{
				ID:    "ligament",
				Label: "靭帯損傷",
				Subcategories: []Category{
					{ID: "acl", Label: "前十字靭帯"},
				},
			},
		},
	}
	assert.Equal(t, "前十字靭帯", CategoryLabel(region, "acl"))
}
