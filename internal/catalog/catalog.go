package catalog

// Archetype is a patient-persona template. Tone and description feed the
// system prompt; NavigationGroups, when present, replace the default body
// regions for case selection. Static configuration, never mutated at runtime.
type Archetype struct {
	ID               string           `json:"id"`
	Label            string           `json:"label"`
	Description      string           `json:"description"`
	Tone             string           `json:"tone"`
	NavigationGroups []BodyRegion     `json:"navigationGroups,omitempty"`
	InterviewFrames  []InterviewFrame `json:"interviewFrames,omitempty"`
}

type BodyRegion struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Categories []Category `json:"categories"`
}

type Category struct {
	ID            string     `json:"id"`
	Label         string     `json:"label"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// InterviewFrame is a UI hint listing question categories for the student.
// Display data only; no logic keys off it.
type InterviewFrame struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// FindArchetype returns nil when the id is unknown.
func FindArchetype(id string) *Archetype {
	for i := range Archetypes {
		if Archetypes[i].ID == id {
			return &Archetypes[i]
		}
	}
	return nil
}

// RegionsFor returns the archetype's own navigation tree when it has one,
// otherwise the shared body-region list.
func RegionsFor(a *Archetype) []BodyRegion {
	if a != nil && len(a.NavigationGroups) > 0 {
		return a.NavigationGroups
	}
	return BodyRegions
}

func FindRegion(regions []BodyRegion, id string) *BodyRegion {
	for i := range regions {
		if regions[i].ID == id {
			return &regions[i]
		}
	}
	return nil
}

// CategoryLabel resolves a category id to its display label, searching
// subcategories too. Unknown ids fall back to the raw id so callers never
// fail hard on a stale or generated classification.
func CategoryLabel(region *BodyRegion, categoryID string) string {
	if region == nil {
		return categoryID
	}
	if label, ok := findCategoryLabel(region.Categories, categoryID); ok {
		return label
	}
	return categoryID
}

func findCategoryLabel(categories []Category, id string) (string, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c.Label, true
		}
		if label, ok := findCategoryLabel(c.Subcategories, id); ok {
			return label, true
		}
	}
	return "", false
}
