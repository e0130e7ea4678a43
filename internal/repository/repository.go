package repository

import (
	"context"
	"time"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

// Repository is the persistence contract for the pricing service. All record
// reads are tenant-scoped; cost-record deletion is a soft flip of Active.
type Repository interface {
	// Auth
	GetAPIKey(ctx context.Context, key string) (*models.APIKey, error)

	// Fixed expenses
	CreateFixedExpense(ctx context.Context, item *models.FixedExpense) error
	UpdateFixedExpense(ctx context.Context, item *models.FixedExpense) error
	SetFixedExpenseActive(ctx context.Context, tenantID, id string, active bool) error
	GetFixedExpense(ctx context.Context, tenantID, id string) (*models.FixedExpense, error)
	ListFixedExpenses(ctx context.Context, params ListRecordsParams) ([]models.FixedExpense, error)

	// Payroll entries
	CreatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error
	UpdatePayrollEntry(ctx context.Context, item *models.PayrollEntry) error
	SetPayrollEntryActive(ctx context.Context, tenantID, id string, active bool) error
	GetPayrollEntry(ctx context.Context, tenantID, id string) (*models.PayrollEntry, error)
	ListPayrollEntries(ctx context.Context, params ListRecordsParams) ([]models.PayrollEntry, error)

	// Sales charges
	CreateSalesCharge(ctx context.Context, item *models.SalesCharge) error
	UpdateSalesCharge(ctx context.Context, item *models.SalesCharge) error
	SetSalesChargeActive(ctx context.Context, tenantID, id string, active bool) error
	GetSalesCharge(ctx context.Context, tenantID, id string) (*models.SalesCharge, error)
	ListSalesCharges(ctx context.Context, params ListRecordsParams) ([]models.SalesCharge, error)

	// Revenue history (append-only)
	InsertRevenueEntry(ctx context.Context, item *models.RevenueEntry) error
	ListRevenueEntries(ctx context.Context, params ListRevenueParams) ([]models.RevenueEntry, error)
	ListTenantIDsWithRevenue(ctx context.Context) ([]string, error)

	// Configuration blobs, keyed by (tenant, type). Get returns nil when absent.
	GetConfiguration(ctx context.Context, tenantID, typ string) (*models.Configuration, error)
	UpsertConfiguration(ctx context.Context, item *models.Configuration) error
	DeleteConfiguration(ctx context.Context, tenantID, typ string) error

	// Recipes
	CreateRecipe(ctx context.Context, item *models.Recipe) error
	UpdateRecipe(ctx context.Context, item *models.Recipe) error
	SetRecipeActive(ctx context.Context, tenantID, id string, active bool) error
	GetRecipe(ctx context.Context, tenantID, id string) (*models.Recipe, error)
	ListRecipes(ctx context.Context, params ListRecordsParams) ([]models.Recipe, error)

	// System settings
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
}

type ListRecordsParams struct {
	TenantID string
	Active   *bool
	Limit    int
	Offset   int
	OrderBy  string
	Asc      *bool
}

type ListRevenueParams struct {
	TenantID string
	Since    *time.Time
	Until    *time.Time
	Limit    int
	Offset   int
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
