package tours

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	tourstore "github.com/dalemusser/tourhub/internal/app/store/tours"
	"github.com/dalemusser/tourhub/internal/domain/models"
	"github.com/dalemusser/tourhub/internal/testutil"
)

func TestTranslateQuery(t *testing.T) {
	in := url.Values{
		"ratingsAverage[gte]": {"4.7"},
		"maxGroupSize":        {"10"},
		"bogus":               {"1"},
		"sort":                {"-ratingsAverage,price"},
		"fields":              {"name,ratingsAverage"},
		"page":                {"2"},
	}
	out := translateQuery(in)

	if got := out.Get("ratings_average[gte]"); got != "4.7" {
		t.Errorf("ratings_average[gte] = %q, want 4.7", got)
	}
	if got := out.Get("max_group_size"); got != "10" {
		t.Errorf("max_group_size = %q, want 10", got)
	}
	if _, ok := out["bogus"]; ok {
		t.Error("unknown fields should be dropped")
	}
	if got := out.Get("sort"); got != "-ratings_average,price" {
		t.Errorf("sort = %q", got)
	}
	if got := out.Get("fields"); got != "name,ratings_average" {
		t.Errorf("fields = %q", got)
	}
	if got := out.Get("page"); got != "2" {
		t.Errorf("page = %q, want 2", got)
	}
}

type listEnvelope struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    struct {
		Tours []models.Tour `json:"tours"`
	} `json:"data"`
}

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(tourstore.New(db),
		apierrors.NewErrorLogger(zap.NewNop(), false), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func TestHandleList_FilterAndSort(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	fx.CreateTour(ctx, "The Forest Hiker", 397, models.DifficultyEasy)
	fx.CreateTour(ctx, "The Sea Explorer", 497, models.DifficultyMedium)
	fx.CreateTour(ctx, "The Snow Adventurer", 997, models.DifficultyDifficult)
	fx.CreateSecretTour(ctx, "The Hidden Valley", 200)

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest("GET", "/?price[lt]=600&sort=price", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env listEnvelope
	testutil.DecodeJSON(t, rec, &env)
	if env.Results != 2 {
		t.Fatalf("results = %d, want 2 (secret excluded)", env.Results)
	}
	if env.Data.Tours[0].Name != "The Forest Hiker" {
		t.Errorf("first tour = %q, want cheapest", env.Data.Tours[0].Name)
	}
}

func TestHandleTop5Cheap(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	names := []string{
		"The Forest Hiker", "The Sea Explorer", "The Snow Adventurer",
		"The City Wanderer", "The Star Gazer", "The Park Camper", "The Wine Taster",
	}
	for i, name := range names {
		fx.CreateTour(ctx, name, float64(100*(i+1)), models.DifficultyEasy)
	}

	rec := httptest.NewRecorder()
	h.HandleTop5Cheap(rec, httptest.NewRequest("GET", "/top-5-cheap", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env listEnvelope
	testutil.DecodeJSON(t, rec, &env)
	if env.Results != 5 {
		t.Errorf("results = %d, want 5", env.Results)
	}
	// Equal ratings, so price ascending decides the order.
	if env.Data.Tours[0].Price != 100 {
		t.Errorf("first price = %v, want 100", env.Data.Tours[0].Price)
	}
	// Field selection drops the summary.
	if env.Data.Tours[0].Summary != "" {
		t.Error("summary should be projected out of the alias response")
	}
}

func TestHandleCreate(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/", map[string]any{
		"name":         "The Desert Rider",
		"duration":     7,
		"maxGroupSize": 12,
		"difficulty":   "medium",
		"price":        799,
		"summary":      "Dunes as far as you can see",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data struct {
			Tour models.Tour `json:"tour"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, rec, &env)
	if env.Data.Tour.Slug != "the-desert-rider" {
		t.Errorf("slug = %q", env.Data.Tour.Slug)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/", map[string]any{
		"name":          "The Overpriced Discount Tour",
		"duration":      7,
		"maxGroupSize":  12,
		"difficulty":    "medium",
		"price":         100,
		"priceDiscount": 150,
		"summary":       "Discount above price",
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Status string `json:"status"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	testutil.DecodeJSON(t, rec, &env)
	if env.Status != "fail" {
		t.Errorf("status = %q, want fail", env.Status)
	}
	found := false
	for _, fe := range env.Errors {
		if fe.Field == "priceDiscount" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a priceDiscount field error, got %+v", env.Errors)
	}
}

func TestHandleGet_BadAndMissingID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/not-hex", nil), "id", "not-hex")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}

	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil),
		"id", "65a1b2c3d4e5f6a7b8c9d0e1")
	rec = httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
}

func TestHandleMonthlyPlan_BadYear(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/monthly-plan/abc", nil), "year", "abc")
	rec := httptest.NewRecorder()
	h.HandleMonthlyPlan(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
