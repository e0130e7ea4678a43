package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// SubRecipeScenarioID is the reserved scenario used to price recipes that
// feed other recipes. It always exists, carries zero figures, and rejects
// every mutation.
const SubRecipeScenarioID = "sub-recipe"

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrScenarioReadOnly = errors.New("scenario is read-only")
)

// Scenario is one named markup configuration together with its last computed
// figures. The whole tenant set persists as a single configuration blob so a
// save and its recompute land atomically.
type Scenario struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	engine.Figures
	DesiredProfitPct float64 `json:"desiredProfitPct"`
}

func subRecipeScenario() Scenario {
	return Scenario{ID: SubRecipeScenarioID, Name: "Sub-receita"}
}

type ScenarioService struct {
	Repo      repository.Repository
	Store     *configstore.Store
	Selection *SelectionService
	Revenue   *RevenueService
	Hub       *watch.Hub
	Logger    *zap.Logger

	// MonthlyHours overrides the engine default when positive.
	MonthlyHours float64
}

// List returns the tenant's scenarios with the sub-recipe sentinel appended.
func (s *ScenarioService) List(ctx context.Context, tenantID string) ([]Scenario, error) {
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return append(stored, subRecipeScenario()), nil
}

func (s *ScenarioService) Get(ctx context.Context, tenantID, scenarioID string) (*Scenario, error) {
	if scenarioID == SubRecipeScenarioID {
		sc := subRecipeScenario()
		return &sc, nil
	}
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].ID == scenarioID {
			return &stored[i], nil
		}
	}
	return nil, ErrScenarioNotFound
}

// Create registers a scenario with an include-everything selection and
// computes its first figures before returning.
func (s *ScenarioService) Create(ctx context.Context, tenantID, name string, desiredProfitPct float64) (*Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("scenario name is required")
	}
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sc := Scenario{
		ID:               uuid.NewString(),
		Name:             name,
		DesiredProfitPct: desiredProfitPct,
	}
	stored = append(stored, sc)
	if err := s.save(ctx, tenantID, stored); err != nil {
		return nil, err
	}

	selection, err := s.Selection.DefaultForNewScenario(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.Selection.Save(ctx, tenantID, sc.ID, selection, nil); err != nil {
		return nil, err
	}

	out, err := s.Recompute(ctx, tenantID, sc.ID)
	if err != nil {
		return nil, err
	}
	s.publish(tenantID, sc.ID)
	return out, nil
}

func (s *ScenarioService) Rename(ctx context.Context, tenantID, scenarioID, name string) (*Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("scenario name is required")
	}
	var renamed *Scenario
	err := s.mutate(ctx, tenantID, scenarioID, func(sc *Scenario) {
		sc.Name = name
		renamed = sc
	})
	if err != nil {
		return nil, err
	}
	s.publish(tenantID, scenarioID)
	return renamed, nil
}

func (s *ScenarioService) SetDesiredProfit(ctx context.Context, tenantID, scenarioID string, pct float64) (*Scenario, error) {
	err := s.mutate(ctx, tenantID, scenarioID, func(sc *Scenario) {
		sc.DesiredProfitPct = pct
	})
	if err != nil {
		return nil, err
	}
	s.publish(tenantID, scenarioID)
	return s.Get(ctx, tenantID, scenarioID)
}

// Delete removes the scenario and its saved selection. Recipes keep their
// dangling scenario id; pricing them falls back to the doubling path.
func (s *ScenarioService) Delete(ctx context.Context, tenantID, scenarioID string) error {
	if scenarioID == SubRecipeScenarioID {
		return ErrScenarioReadOnly
	}
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}
	kept := stored[:0]
	found := false
	for _, sc := range stored {
		if sc.ID == scenarioID {
			found = true
			continue
		}
		kept = append(kept, sc)
	}
	if !found {
		return ErrScenarioNotFound
	}
	if err := s.save(ctx, tenantID, kept); err != nil {
		return err
	}
	if err := s.Selection.Drop(ctx, tenantID, scenarioID); err != nil && s.Logger != nil {
		s.Logger.Warn("selection cleanup failed", zap.String("scenario", scenarioID), zap.Error(err))
	}
	s.publish(tenantID, scenarioID)
	return nil
}

// Recompute reloads the scenario's selection and cost records, reruns the
// aggregation and persists the fresh figures.
func (s *ScenarioService) Recompute(ctx context.Context, tenantID, scenarioID string) (*Scenario, error) {
	if scenarioID == SubRecipeScenarioID {
		sc := subRecipeScenario()
		return &sc, nil
	}
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range stored {
		if stored[i].ID == scenarioID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrScenarioNotFound
	}

	fig, err := s.computeFigures(ctx, tenantID, scenarioID)
	if err != nil {
		return nil, err
	}
	stored[idx].Figures = fig
	if err := s.save(ctx, tenantID, stored); err != nil {
		return nil, err
	}
	out := stored[idx]
	return &out, nil
}

// RecomputeAll reruns every scenario of a tenant, the entry point the
// debounced change listener calls.
func (s *ScenarioService) RecomputeAll(ctx context.Context, tenantID string) error {
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}
	changed := false
	for i := range stored {
		fig, err := s.computeFigures(ctx, tenantID, stored[i].ID)
		if err != nil {
			return err
		}
		if !figuresEqual(stored[i].Figures, fig) {
			stored[i].Figures = fig
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.save(ctx, tenantID, stored); err != nil {
		return err
	}
	s.publish(tenantID, "")
	return nil
}

// Simulate prices a cost breakdown under a scenario.
func (s *ScenarioService) Simulate(ctx context.Context, tenantID, scenarioID string, cost engine.CostBreakdown) (engine.Quote, error) {
	sc, err := s.Get(ctx, tenantID, scenarioID)
	if err != nil {
		return engine.Quote{}, err
	}
	return engine.Simulate(cost, engine.ScenarioFigures{
		Figures:          sc.Figures,
		DesiredProfitPct: sc.DesiredProfitPct,
		IsSubRecipe:      sc.ID == SubRecipeScenarioID,
	}), nil
}

// SimulateRecipe prices a stored recipe under its own scenario, falling back
// to the sub-recipe sentinel when the recipe has none.
func (s *ScenarioService) SimulateRecipe(ctx context.Context, tenantID, recipeID string) (*models.Recipe, engine.Quote, error) {
	recipe, err := s.Repo.GetRecipe(ctx, tenantID, recipeID)
	if err != nil {
		return nil, engine.Quote{}, err
	}
	if recipe == nil {
		return nil, engine.Quote{}, errors.New("recipe not found")
	}
	scenarioID := recipe.ScenarioID
	if scenarioID == "" {
		scenarioID = SubRecipeScenarioID
	}
	quote, err := s.Simulate(ctx, tenantID, scenarioID, engine.CostBreakdown{
		Ingredients:   recipe.IngredientsCost,
		Packaging:     recipe.PackagingCost,
		Labor:         recipe.LaborCost,
		SubRecipes:    recipe.SubRecipesCost,
		YieldQuantity: recipe.YieldQuantity,
	})
	if err != nil {
		return nil, engine.Quote{}, err
	}
	return recipe, quote, nil
}

func (s *ScenarioService) computeFigures(ctx context.Context, tenantID, scenarioID string) (engine.Figures, error) {
	selection, err := s.Selection.Load(ctx, tenantID, scenarioID)
	if err != nil {
		return engine.Figures{}, err
	}
	expenses, err := s.Repo.ListFixedExpenses(ctx, repository.ListRecordsParams{TenantID: tenantID})
	if err != nil {
		return engine.Figures{}, err
	}
	payroll, err := s.Repo.ListPayrollEntries(ctx, repository.ListRecordsParams{TenantID: tenantID})
	if err != nil {
		return engine.Figures{}, err
	}
	charges, err := s.Repo.ListSalesCharges(ctx, repository.ListRecordsParams{TenantID: tenantID})
	if err != nil {
		return engine.Figures{}, err
	}
	avg, err := s.Revenue.TrailingAverage(ctx, tenantID)
	if err != nil {
		return engine.Figures{}, err
	}
	return engine.Aggregate(engine.AggregateInput{
		Selection:      selection,
		FixedExpenses:  expenses,
		PayrollEntries: payroll,
		SalesCharges:   charges,
		AvgRevenue:     avg,
		MonthlyHours:   s.MonthlyHours,
	}), nil
}

func (s *ScenarioService) load(ctx context.Context, tenantID string) ([]Scenario, error) {
	var stored []Scenario
	if _, err := s.Store.GetJSON(ctx, tenantID, ConfigTypeScenarios, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *ScenarioService) save(ctx context.Context, tenantID string, scenarios []Scenario) error {
	if scenarios == nil {
		scenarios = []Scenario{}
	}
	return s.Store.PutJSON(ctx, tenantID, ConfigTypeScenarios, scenarios)
}

func (s *ScenarioService) mutate(ctx context.Context, tenantID, scenarioID string, fn func(*Scenario)) error {
	if scenarioID == SubRecipeScenarioID {
		return ErrScenarioReadOnly
	}
	stored, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}
	for i := range stored {
		if stored[i].ID == scenarioID {
			fn(&stored[i])
			return s.save(ctx, tenantID, stored)
		}
	}
	return ErrScenarioNotFound
}

func figuresEqual(a, b engine.Figures) bool {
	return a.SpendOnRevenuePct == b.SpendOnRevenuePct &&
		a.TaxesPct == b.TaxesPct &&
		a.PaymentFeesPct == b.PaymentFeesPct &&
		a.CommissionsPct == b.CommissionsPct &&
		a.OtherPct == b.OtherPct &&
		a.ValueInCurrency.Equal(b.ValueInCurrency)
}

func (s *ScenarioService) publish(tenantID, scenarioID string) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindScenario, RecordID: scenarioID})
}
