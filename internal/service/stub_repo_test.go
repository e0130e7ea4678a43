package service

import (
	"context"
	"sort"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but each test only touches a slice of it.
type stubRepo struct {
	apiKeys   map[string]models.APIKey
	expenses  map[string]models.FixedExpense
	payroll   map[string]models.PayrollEntry
	charges   map[string]models.SalesCharge
	recipes   map[string]models.Recipe
	revenue   []models.RevenueEntry
	configs   map[string]models.Configuration
	settings  map[string]models.SystemSetting
	nextRevID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		apiKeys:  map[string]models.APIKey{},
		expenses: map[string]models.FixedExpense{},
		payroll:  map[string]models.PayrollEntry{},
		charges:  map[string]models.SalesCharge{},
		recipes:  map[string]models.Recipe{},
		configs:  map[string]models.Configuration{},
		settings: map[string]models.SystemSetting{},
	}
}

func configKey(tenantID, typ string) string { return tenantID + "\x00" + typ }

func (s *stubRepo) GetAPIKey(ctx context.Context, key string) (*models.APIKey, error) {
	if k, ok := s.apiKeys[key]; ok {
		return &k, nil
	}
	return nil, nil
}

func (s *stubRepo) CreateFixedExpense(ctx context.Context, item *models.FixedExpense) error {
	s.expenses[item.ID] = *item
	return nil
}
func (s *stubRepo) UpdateFixedExpense(ctx context.Context, item *models.FixedExpense) error {
	s.expenses[item.ID] = *item
	return nil
}
func (s *stubRepo) SetFixedExpenseActive(ctx context.Context, tenantID, id string, active bool) error {
	if e, ok := s.expenses[id]; ok && e.TenantID == tenantID {
		e.Active = active
		s.expenses[id] = e
	}
	return nil
}
func (s *stubRepo) GetFixedExpense(ctx context.Context, tenantID, id string) (*models.FixedExpense, error) {
	if e, ok := s.expenses[id]; ok && e.TenantID == tenantID {
		return &e, nil
	}
	return nil, nil
}
func (s *stubRepo) ListFixedExpenses(ctx context.Context, params repository.ListRecordsParams) ([]models.FixedExpense, error) {
	var out []models.FixedExpense
	for _, e := range s.expenses {
		if e.TenantID != params.TenantID {
			continue
		}
		if params.Active != nil && e.Active != *params.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CreatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error {
	s.payroll[item.ID] = *item
	return nil
}
func (s *stubRepo) UpdatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error {
	s.payroll[item.ID] = *item
	return nil
}
func (s *stubRepo) SetPayrollEntryActive(ctx context.Context, tenantID, id string, active bool) error {
	if e, ok := s.payroll[id]; ok && e.TenantID == tenantID {
		e.Active = active
		s.payroll[id] = e
	}
	return nil
}
func (s *stubRepo) GetPayrollEntry(ctx context.Context, tenantID, id string) (*models.PayrollEntry, error) {
	if e, ok := s.payroll[id]; ok && e.TenantID == tenantID {
		return &e, nil
	}
	return nil, nil
}
func (s *stubRepo) ListPayrollEntries(ctx context.Context, params repository.ListRecordsParams) ([]models.PayrollEntry, error) {
	var out []models.PayrollEntry
	for _, e := range s.payroll {
		if e.TenantID != params.TenantID {
			continue
		}
		if params.Active != nil && e.Active != *params.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CreateSalesCharge(ctx context.Context, item *models.SalesCharge) error {
	s.charges[item.ID] = *item
	return nil
}
func (s *stubRepo) UpdateSalesCharge(ctx context.Context, item *models.SalesCharge) error {
	s.charges[item.ID] = *item
	return nil
}
func (s *stubRepo) SetSalesChargeActive(ctx context.Context, tenantID, id string, active bool) error {
	if e, ok := s.charges[id]; ok && e.TenantID == tenantID {
		e.Active = active
		s.charges[id] = e
	}
	return nil
}
func (s *stubRepo) GetSalesCharge(ctx context.Context, tenantID, id string) (*models.SalesCharge, error) {
	if e, ok := s.charges[id]; ok && e.TenantID == tenantID {
		return &e, nil
	}
	return nil, nil
}
func (s *stubRepo) ListSalesCharges(ctx context.Context, params repository.ListRecordsParams) ([]models.SalesCharge, error) {
	var out []models.SalesCharge
	for _, e := range s.charges {
		if e.TenantID != params.TenantID {
			continue
		}
		if params.Active != nil && e.Active != *params.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) InsertRevenueEntry(ctx context.Context, item *models.RevenueEntry) error {
	s.nextRevID++
	item.ID = s.nextRevID
	s.revenue = append(s.revenue, *item)
	return nil
}
func (s *stubRepo) ListRevenueEntries(ctx context.Context, params repository.ListRevenueParams) ([]models.RevenueEntry, error) {
	var out []models.RevenueEntry
	for _, e := range s.revenue {
		if e.TenantID != params.TenantID {
			continue
		}
		if params.Since != nil && e.Month.Before(*params.Since) {
			continue
		}
		if params.Until != nil && e.Month.After(*params.Until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
func (s *stubRepo) ListTenantIDsWithRevenue(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range s.revenue {
		if !seen[e.TenantID] {
			seen[e.TenantID] = true
			out = append(out, e.TenantID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubRepo) GetConfiguration(ctx context.Context, tenantID, typ string) (*models.Configuration, error) {
	if c, ok := s.configs[configKey(tenantID, typ)]; ok {
		return &c, nil
	}
	return nil, nil
}
func (s *stubRepo) UpsertConfiguration(ctx context.Context, item *models.Configuration) error {
	s.configs[configKey(item.TenantID, item.Type)] = *item
	return nil
}
func (s *stubRepo) DeleteConfiguration(ctx context.Context, tenantID, typ string) error {
	delete(s.configs, configKey(tenantID, typ))
	return nil
}

func (s *stubRepo) CreateRecipe(ctx context.Context, item *models.Recipe) error {
	s.recipes[item.ID] = *item
	return nil
}
func (s *stubRepo) UpdateRecipe(ctx context.Context, item *models.Recipe) error {
	s.recipes[item.ID] = *item
	return nil
}
func (s *stubRepo) SetRecipeActive(ctx context.Context, tenantID, id string, active bool) error {
	if e, ok := s.recipes[id]; ok && e.TenantID == tenantID {
		e.Active = active
		s.recipes[id] = e
	}
	return nil
}
func (s *stubRepo) GetRecipe(ctx context.Context, tenantID, id string) (*models.Recipe, error) {
	if e, ok := s.recipes[id]; ok && e.TenantID == tenantID {
		return &e, nil
	}
	return nil, nil
}
func (s *stubRepo) ListRecipes(ctx context.Context, params repository.ListRecordsParams) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, e := range s.recipes {
		if e.TenantID != params.TenantID {
			continue
		}
		if params.Active != nil && e.Active != *params.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.settings[item.Key] = *item
	return nil
}
func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if v, ok := s.settings[key]; ok {
		return &v, nil
	}
	return nil, nil
}
func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	var out []models.SystemSetting
	for _, v := range s.settings {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)
