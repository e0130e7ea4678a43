package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
)

// Configuration blob type tags.
const (
	ConfigTypeScenarios       = "markup_blocks"
	ConfigTypeSelectionPrefix = "markup_selection."
	ConfigTypeRevenuePeriod   = "revenue_period"
	ConfigTypeBillingStatus   = "billing_status"
)

func selectionType(scenarioID string) string {
	return ConfigTypeSelectionPrefix + scenarioID
}

// SelectionService persists which cost records a scenario includes.
type SelectionService struct {
	Store  *configstore.Store
	Repo   repository.Repository
	Logger *zap.Logger
}

// Load returns a scenario's selection map. A scenario that never saved one
// gets an empty map: nothing included until the user says so.
func (s *SelectionService) Load(ctx context.Context, tenantID, scenarioID string) (map[string]bool, error) {
	state := map[string]bool{}
	found, err := s.Store.GetJSON(ctx, tenantID, selectionType(scenarioID), &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]bool{}, nil
	}
	return state, nil
}

// Save overwrites the scenario's selection map, merging forward entries for
// ids outside the caller's record universe. Records not loaded into the
// editing view (another tab's scope) keep their saved selections instead of
// being silently dropped by the wholesale overwrite.
func (s *SelectionService) Save(ctx context.Context, tenantID, scenarioID string, state map[string]bool, universe []string) error {
	if state == nil {
		state = map[string]bool{}
	}

	prev := map[string]bool{}
	if _, err := s.Store.GetJSON(ctx, tenantID, selectionType(scenarioID), &prev); err != nil {
		return err
	}

	known := make(map[string]struct{}, len(universe))
	for _, id := range universe {
		known[id] = struct{}{}
	}

	merged := make(map[string]bool, len(state)+len(prev))
	for id, included := range state {
		merged[id] = included
	}
	for id, included := range prev {
		if _, inUniverse := known[id]; !inUniverse {
			if _, overridden := merged[id]; !overridden {
				merged[id] = included
			}
		}
	}

	return s.Store.PutJSON(ctx, tenantID, selectionType(scenarioID), merged)
}

// DefaultForNewScenario marks every currently active cost record as included.
func (s *SelectionService) DefaultForNewScenario(ctx context.Context, tenantID string) (map[string]bool, error) {
	active := true
	params := repository.ListRecordsParams{TenantID: tenantID, Active: &active, Limit: 500}

	state := map[string]bool{}

	expenses, err := s.Repo.ListFixedExpenses(ctx, params)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		state[e.ID] = true
	}

	payroll, err := s.Repo.ListPayrollEntries(ctx, params)
	if err != nil {
		return nil, err
	}
	for _, p := range payroll {
		state[p.ID] = true
	}

	charges, err := s.Repo.ListSalesCharges(ctx, params)
	if err != nil {
		return nil, err
	}
	for _, c := range charges {
		state[c.ID] = true
	}

	return state, nil
}

// Drop removes a deleted scenario's selection blob.
func (s *SelectionService) Drop(ctx context.Context, tenantID, scenarioID string) error {
	return s.Store.Delete(ctx, tenantID, selectionType(scenarioID))
}
