package cases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/prompt"
	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

// JSONProvider is the slice of the LLM client case generation needs.
type JSONProvider interface {
	ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error)
	CaseModel() string
}

// Generator creates cases on demand when no stored case matches a
// classification triple.
type Generator struct {
	provider JSONProvider
	store    *Store
}

func NewGenerator(provider JSONProvider, store *Store) *Generator {
	return &Generator{provider: provider, store: store}
}

// ResolveOrGenerate returns a case for the triple, preferring stored cases
// and falling back to model generation. Generated cases are persisted before
// being returned so later chat turns can resolve them. The returned flag
// reports whether generation happened.
func (g *Generator) ResolveOrGenerate(ctx context.Context, archetypeID, regionID, categoryID string) (*models.Case, bool, error) {
	existing, err := g.store.PickRandom(archetypeID, regionID, categoryID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve case: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	archetype := catalog.FindArchetype(archetypeID)
	if archetype == nil {
		return nil, false, fmt.Errorf("unknown archetype: %s", archetypeID)
	}
	regions := catalog.RegionsFor(archetype)
	region := catalog.FindRegion(regions, regionID)
	if region == nil {
		return nil, false, fmt.Errorf("unknown region: %s", regionID)
	}
	categoryLabel := catalog.CategoryLabel(region, categoryID)

	logger.Info("no stored case for selection, generating",
		zap.String("archetype", archetypeID),
		zap.String("region", regionID),
		zap.String("category", categoryID),
	)

	start := time.Now()
	raw, err := g.provider.ChatJSON(ctx,
		g.provider.CaseModel(),
		prompt.BuildCaseGenSystemPrompt(archetype, regionID, categoryID),
		prompt.BuildCaseGenUserPrompt(archetype, region.Label, categoryLabel),
		0,
	)
	metrics.CaseGenDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate case: %w", err)
	}

	var generated models.Case
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, false, fmt.Errorf("failed to parse generated case: %w", err)
	}
	if generated.ID == "" || generated.TrueDiagnosis == "" {
		return nil, false, fmt.Errorf("generated case is missing required fields")
	}

	// The requested triple wins over whatever the model put in the JSON,
	// otherwise later lookups by triple would miss this case.
	generated.ArchetypeID = archetypeID
	generated.RegionID = regionID
	generated.CategoryID = categoryID

	if err := g.store.SaveGenerated(&generated); err != nil {
		return nil, false, fmt.Errorf("failed to persist generated case: %w", err)
	}

	logger.Info("generated dynamic case",
		zap.String("case_id", generated.ID),
		zap.String("title", generated.Title),
	)
	return &generated, true, nil
}
