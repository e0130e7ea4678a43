package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/cache"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

const testTenant = "tenant-1"

func newTestServices(repo *stubRepo) (*ScenarioService, *SelectionService, *RevenueService) {
	store := configstore.New(repo, cache.NewMemoryStore(), time.Second, zap.NewNop())
	selection := &SelectionService{Store: store, Repo: repo, Logger: zap.NewNop()}
	revenue := &RevenueService{Repo: repo, Store: store, Logger: zap.NewNop(), DefaultPeriodMonths: 3}
	scenarios := &ScenarioService{
		Repo:      repo,
		Store:     store,
		Selection: selection,
		Revenue:   revenue,
		Logger:    zap.NewNop(),
	}
	return scenarios, selection, revenue
}

func seedCostRecords(t *testing.T, repo *stubRepo) {
	t.Helper()
	ctx := context.Background()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(repo.CreateFixedExpense(ctx, &models.FixedExpense{
		ID: "exp-rent", TenantID: testTenant, Name: "Aluguel",
		Value: decimal.NewFromInt(800), Active: true,
	}))
	must(repo.CreateFixedExpense(ctx, &models.FixedExpense{
		ID: "exp-old", TenantID: testTenant, Name: "Antigo",
		Value: decimal.NewFromInt(300), Active: false,
	}))
	must(repo.CreatePayrollEntry(ctx, &models.PayrollEntry{
		ID: "pay-1", TenantID: testTenant, Name: "Confeiteira",
		BaseSalary: decimal.NewFromInt(200), Active: true,
	}))
	must(repo.CreateSalesCharge(ctx, &models.SalesCharge{
		ID: "chg-pix", TenantID: testTenant, Name: "PIX",
		ValuePercentual: 2, Active: true,
	}))
	must(repo.InsertRevenueEntry(ctx, &models.RevenueEntry{
		TenantID: testTenant,
		Month:    engine.MonthStart(time.Now().UTC()),
		Amount:   decimal.NewFromInt(10000),
	}))
}

func TestScenarioCreate_DefaultsToAllActiveRecords(t *testing.T) {
	repo := newStubRepo()
	seedCostRecords(t, repo)
	scenarios, selection, _ := newTestServices(repo)
	ctx := context.Background()

	sc, err := scenarios.Create(ctx, testTenant, "Loja física", 20)
	if err != nil {
		t.Fatal(err)
	}

	state, err := selection.Load(ctx, testTenant, sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"exp-rent", "pay-1", "chg-pix"} {
		if !state[id] {
			t.Errorf("active record %s not included in new scenario", id)
		}
	}
	if state["exp-old"] {
		t.Error("inactive record included in new scenario")
	}

	// 800 + 200 payroll over 10000 revenue, plus the 2% PIX charge.
	if sc.SpendOnRevenuePct != 10 {
		t.Errorf("SpendOnRevenuePct = %v, want 10", sc.SpendOnRevenuePct)
	}
	if sc.PaymentFeesPct != 2 {
		t.Errorf("PaymentFeesPct = %v, want 2", sc.PaymentFeesPct)
	}
}

func TestScenarioList_AlwaysIncludesSubRecipeSentinel(t *testing.T) {
	repo := newStubRepo()
	scenarios, _, _ := newTestServices(repo)

	list, err := scenarios.List(context.Background(), testTenant)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != SubRecipeScenarioID {
		t.Fatalf("empty tenant list = %+v, want only the sub-recipe sentinel", list)
	}
}

func TestScenarioSentinel_RejectsMutations(t *testing.T) {
	repo := newStubRepo()
	scenarios, _, _ := newTestServices(repo)
	ctx := context.Background()

	if _, err := scenarios.Rename(ctx, testTenant, SubRecipeScenarioID, "x"); !errors.Is(err, ErrScenarioReadOnly) {
		t.Errorf("Rename sentinel: err = %v, want ErrScenarioReadOnly", err)
	}
	if _, err := scenarios.SetDesiredProfit(ctx, testTenant, SubRecipeScenarioID, 10); !errors.Is(err, ErrScenarioReadOnly) {
		t.Errorf("SetDesiredProfit sentinel: err = %v, want ErrScenarioReadOnly", err)
	}
	if err := scenarios.Delete(ctx, testTenant, SubRecipeScenarioID); !errors.Is(err, ErrScenarioReadOnly) {
		t.Errorf("Delete sentinel: err = %v, want ErrScenarioReadOnly", err)
	}
}

func TestScenarioDelete_DropsSelection(t *testing.T) {
	repo := newStubRepo()
	seedCostRecords(t, repo)
	scenarios, selection, _ := newTestServices(repo)
	ctx := context.Background()

	sc, err := scenarios.Create(ctx, testTenant, "Temporário", 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := scenarios.Delete(ctx, testTenant, sc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := scenarios.Get(ctx, testTenant, sc.ID); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrScenarioNotFound", err)
	}
	state, err := selection.Load(ctx, testTenant, sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(state) != 0 {
		t.Errorf("selection survived scenario delete: %v", state)
	}
}

func TestSelectionSave_MergesForwardOutOfUniverseIDs(t *testing.T) {
	repo := newStubRepo()
	_, selection, _ := newTestServices(repo)
	ctx := context.Background()

	// First save from a view that saw records a and x.
	if err := selection.Save(ctx, testTenant, "sc-1",
		map[string]bool{"a": true, "x": true}, []string{"a", "x"}); err != nil {
		t.Fatal(err)
	}

	// Second save from a view that never loaded x. Its entry must survive.
	if err := selection.Save(ctx, testTenant, "sc-1",
		map[string]bool{"a": false, "b": true}, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	state, err := selection.Load(ctx, testTenant, "sc-1")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"a": false, "b": true, "x": true}
	if len(state) != len(want) {
		t.Fatalf("state = %v, want %v", state, want)
	}
	for id, included := range want {
		if state[id] != included {
			t.Errorf("state[%s] = %v, want %v", id, state[id], included)
		}
	}
}

func TestSelectionSave_ExplicitOverrideBeatsMergeForward(t *testing.T) {
	repo := newStubRepo()
	_, selection, _ := newTestServices(repo)
	ctx := context.Background()

	if err := selection.Save(ctx, testTenant, "sc-1",
		map[string]bool{"x": true}, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	// x is outside this save's universe but explicitly flipped off.
	if err := selection.Save(ctx, testTenant, "sc-1",
		map[string]bool{"x": false}, []string{"a"}); err != nil {
		t.Fatal(err)
	}

	state, err := selection.Load(ctx, testTenant, "sc-1")
	if err != nil {
		t.Fatal(err)
	}
	if state["x"] {
		t.Error("explicit exclusion lost to merge-forward")
	}
}

func TestRecomputeAll_RefreshesFiguresAfterEdit(t *testing.T) {
	repo := newStubRepo()
	seedCostRecords(t, repo)
	scenarios, _, _ := newTestServices(repo)
	ctx := context.Background()

	sc, err := scenarios.Create(ctx, testTenant, "Base", 20)
	if err != nil {
		t.Fatal(err)
	}
	if sc.SpendOnRevenuePct != 10 {
		t.Fatalf("initial SpendOnRevenuePct = %v, want 10", sc.SpendOnRevenuePct)
	}

	// Doubling the rent doubles the fixed spend share.
	if err := repo.UpdateFixedExpense(ctx, &models.FixedExpense{
		ID: "exp-rent", TenantID: testTenant, Name: "Aluguel",
		Value: decimal.NewFromInt(1800), Active: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := scenarios.RecomputeAll(ctx, testTenant); err != nil {
		t.Fatal(err)
	}

	got, err := scenarios.Get(ctx, testTenant, sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SpendOnRevenuePct != 20 {
		t.Errorf("SpendOnRevenuePct after edit = %v, want 20", got.SpendOnRevenuePct)
	}
}

func TestSimulateRecipe_FallsBackToSentinelWithoutScenario(t *testing.T) {
	repo := newStubRepo()
	scenarios, _, _ := newTestServices(repo)
	ctx := context.Background()

	if err := repo.CreateRecipe(ctx, &models.Recipe{
		ID: "rec-1", TenantID: testTenant, Name: "Brigadeiro",
		IngredientsCost: decimal.NewFromInt(30),
		YieldQuantity:   10,
		Active:          true,
	}); err != nil {
		t.Fatal(err)
	}

	_, quote, err := scenarios.SimulateRecipe(ctx, testTenant, "rec-1")
	if err != nil {
		t.Fatal(err)
	}
	// Sentinel has zero figures and no yield division: markup ratio 1, the
	// total cost comes back unchanged.
	if !quote.SuggestedPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("SuggestedPrice = %s, want 30", quote.SuggestedPrice)
	}
}

func TestRevenuePoller_PublishesOnAverageChange(t *testing.T) {
	repo := newStubRepo()
	_, _, revenue := newTestServices(repo)
	ctx := context.Background()

	hub := watch.NewHub(zap.NewNop())
	events, cancel := hub.Subscribe(testTenant, 4)
	defer cancel()

	poller := &RevenuePoller{Repo: repo, Revenue: revenue, Hub: hub, Logger: zap.NewNop()}

	if _, err := revenue.Add(ctx, testTenant, time.Now().UTC(), decimal.NewFromInt(5000)); err != nil {
		t.Fatal(err)
	}
	// First observation only primes the baseline.
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected event on first poll: %+v", ev)
	default:
	}

	if _, err := revenue.Add(ctx, testTenant, time.Now().UTC(), decimal.NewFromInt(9000)); err != nil {
		t.Fatal(err)
	}
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Kind != watch.KindRevenue {
			t.Errorf("event kind = %s, want %s", ev.Kind, watch.KindRevenue)
		}
	default:
		t.Fatal("no event after average changed")
	}
}

func TestBillingWebhook_UpdatesStatus(t *testing.T) {
	repo := newStubRepo()
	store := configstore.New(repo, cache.NewMemoryStore(), time.Second, zap.NewNop())
	billing := &BillingService{Store: store, Logger: zap.NewNop(), CheckoutURL: "https://pay.example/checkout", CheckoutPlanID: "pro"}
	ctx := context.Background()

	status, err := billing.Status(ctx, testTenant)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != "free" {
		t.Fatalf("default status = %s, want free", status.Status)
	}

	err = billing.HandleWebhook(ctx, WebhookPayload{
		Event: "subscription.created", TenantID: testTenant, Plan: "pro",
	})
	if err != nil {
		t.Fatal(err)
	}
	status, err = billing.Status(ctx, testTenant)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != "active" || status.Plan != "pro" {
		t.Errorf("status after webhook = %+v, want active/pro", status)
	}

	if err := billing.HandleWebhook(ctx, WebhookPayload{Event: "weird.event", TenantID: testTenant}); err != nil {
		t.Errorf("unknown event rejected: %v", err)
	}

	link := billing.CheckoutLink(testTenant)
	if link != "https://pay.example/checkout?ref=tenant-1&plan=pro" {
		t.Errorf("checkout link = %s", link)
	}
}
