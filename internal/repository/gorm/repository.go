package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Auth -------------------------------------------------------------------

func (s *Store) GetAPIKey(ctx context.Context, key string) (*models.APIKey, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.APIKey
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Where("active = ?", true).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Fixed expenses ---------------------------------------------------------

func (s *Store) CreateFixedExpense(ctx context.Context, item *models.FixedExpense) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateFixedExpense(ctx context.Context, item *models.FixedExpense) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.FixedExpense{}).
		Where("id = ? AND tenant_id = ?", item.ID, item.TenantID).
		Updates(map[string]any{
			"name":   item.Name,
			"value":  item.Value,
			"active": item.Active,
		}).Error
}

func (s *Store) SetFixedExpenseActive(ctx context.Context, tenantID, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.FixedExpense{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", active).Error
}

func (s *Store) GetFixedExpense(ctx context.Context, tenantID, id string) (*models.FixedExpense, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.FixedExpense
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListFixedExpenses(ctx context.Context, params repository.ListRecordsParams) ([]models.FixedExpense, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := recordQuery(s.db.WithContext(ctx).Model(&models.FixedExpense{}), params)
	var items []models.FixedExpense
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Payroll entries --------------------------------------------------------

func (s *Store) CreatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.PayrollEntry{}).
		Where("id = ? AND tenant_id = ?", item.ID, item.TenantID).
		Updates(map[string]any{
			"name":          item.Name,
			"cost_per_hour": item.CostPerHour,
			"monthly_hours": item.MonthlyHours,
			"base_salary":   item.BaseSalary,
			"active":        item.Active,
		}).Error
}

func (s *Store) SetPayrollEntryActive(ctx context.Context, tenantID, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.PayrollEntry{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", active).Error
}

func (s *Store) GetPayrollEntry(ctx context.Context, tenantID, id string) (*models.PayrollEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.PayrollEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPayrollEntries(ctx context.Context, params repository.ListRecordsParams) ([]models.PayrollEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := recordQuery(s.db.WithContext(ctx).Model(&models.PayrollEntry{}), params)
	var items []models.PayrollEntry
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Sales charges ----------------------------------------------------------

func (s *Store) CreateSalesCharge(ctx context.Context, item *models.SalesCharge) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSalesCharge(ctx context.Context, item *models.SalesCharge) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.SalesCharge{}).
		Where("id = ? AND tenant_id = ?", item.ID, item.TenantID).
		Updates(map[string]any{
			"name":             item.Name,
			"value_percentual": item.ValuePercentual,
			"value_fixed":      item.ValueFixed,
			"active":           item.Active,
		}).Error
}

func (s *Store) SetSalesChargeActive(ctx context.Context, tenantID, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.SalesCharge{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", active).Error
}

func (s *Store) GetSalesCharge(ctx context.Context, tenantID, id string) (*models.SalesCharge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SalesCharge
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSalesCharges(ctx context.Context, params repository.ListRecordsParams) ([]models.SalesCharge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := recordQuery(s.db.WithContext(ctx).Model(&models.SalesCharge{}), params)
	var items []models.SalesCharge
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Revenue history --------------------------------------------------------

func (s *Store) InsertRevenueEntry(ctx context.Context, item *models.RevenueEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListRevenueEntries(ctx context.Context, params repository.ListRevenueParams) ([]models.RevenueEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.RevenueEntry{}).
		Where("tenant_id = ?", params.TenantID)
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("month >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("month <= ?", *params.Until)
	}
	// Newest month first; id breaks ties as recency.
	query = query.Order("month desc").Order("id desc")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.RevenueEntry
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTenantIDsWithRevenue(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.RevenueEntry{}).
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- Configuration blobs ----------------------------------------------------

func (s *Store) GetConfiguration(ctx context.Context, tenantID, typ string) (*models.Configuration, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Configuration
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ?", tenantID, typ).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertConfiguration(ctx context.Context, item *models.Configuration) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.TenantID) == "" || strings.TrimSpace(item.Type) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) DeleteConfiguration(ctx context.Context, tenantID, typ string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ?", tenantID, typ).
		Delete(&models.Configuration{}).Error
}

// --- Recipes ----------------------------------------------------------------

func (s *Store) CreateRecipe(ctx context.Context, item *models.Recipe) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateRecipe(ctx context.Context, item *models.Recipe) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND tenant_id = ?", item.ID, item.TenantID).
		Updates(map[string]any{
			"name":             item.Name,
			"ingredients_cost": item.IngredientsCost,
			"packaging_cost":   item.PackagingCost,
			"labor_cost":       item.LaborCost,
			"sub_recipes_cost": item.SubRecipesCost,
			"yield_quantity":   item.YieldQuantity,
			"scenario_id":      item.ScenarioID,
			"active":           item.Active,
		}).Error
}

func (s *Store) SetRecipeActive(ctx context.Context, tenantID, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", active).Error
}

func (s *Store) GetRecipe(ctx context.Context, tenantID, id string) (*models.Recipe, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Recipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListRecipes(ctx context.Context, params repository.ListRecordsParams) ([]models.Recipe, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := recordQuery(s.db.WithContext(ctx).Model(&models.Recipe{}), params)
	var items []models.Recipe
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- System settings --------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Key) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*params.Prefix)+"%")
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.SystemSetting
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func recordQuery(query *gorm.DB, params repository.ListRecordsParams) *gorm.DB {
	query = query.Where("tenant_id = ?", params.TenantID)
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	return query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset))
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
