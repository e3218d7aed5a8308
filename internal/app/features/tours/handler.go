// internal/app/features/tours/handler.go

// Package tours implements the tours resource: CRUD, the top-5-cheap
// alias, and the aggregation endpoints.
package tours

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/features/shared"
	tourstore "github.com/dalemusser/tourhub/internal/app/store/tours"
	"github.com/dalemusser/tourhub/internal/app/system/listquery"
	"github.com/dalemusser/tourhub/internal/app/system/timeouts"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

// Handler holds the dependencies for the tours endpoints.
type Handler struct {
	Tours  *tourstore.Store
	Errors *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a tours Handler.
func NewHandler(tours *tourstore.Store, errs *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Tours: tours, Errors: errs, Log: logger}
}

// queryFieldAliases maps client-facing camelCase query names to stored
// bson field names. Only these fields may be filtered or sorted on.
var queryFieldAliases = map[string]string{
	"name":            "name",
	"duration":        "duration",
	"difficulty":      "difficulty",
	"price":           "price",
	"ratingsAverage":  "ratings_average",
	"ratingsQuantity": "ratings_quantity",
	"maxGroupSize":    "max_group_size",
	"createdAt":       "created_at",
}

var allowedTourFields = func() map[string]bool {
	m := make(map[string]bool, len(queryFieldAliases))
	for _, bsonName := range queryFieldAliases {
		m[bsonName] = true
	}
	return m
}()

// translateQuery rewrites camelCase field names in filters, sort specs,
// and field selections to their bson equivalents.
func translateQuery(values url.Values) url.Values {
	out := url.Values{}
	for key, vals := range values {
		switch key {
		case "sort", "fields":
			out[key] = []string{translateList(vals[0])}
		case "page", "limit":
			out[key] = vals
		default:
			field, rest := key, ""
			if open := strings.IndexByte(key, '['); open >= 0 {
				field, rest = key[:open], key[open:]
			}
			if bsonName, ok := queryFieldAliases[field]; ok {
				out[bsonName+rest] = vals
			}
		}
	}
	return out
}

func translateList(raw string) string {
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		neg := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if bsonName, ok := queryFieldAliases[name]; ok {
			name = bsonName
		}
		if neg {
			name = "-" + name
		}
		parts[i] = name
	}
	return strings.Join(parts, ",")
}

// HandleList serves GET /. Supports filtering with bracket operators
// (price[lt]=1000), sorting, field selection, and pagination.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query())
}

// HandleTop5Cheap serves GET /top-5-cheap: the five best-rated tours,
// cheapest first on ties, trimmed to the summary fields. Client query
// parameters are ignored; the alias pins its own shape.
func (h *Handler) HandleTop5Cheap(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, url.Values{
		"limit":  {"5"},
		"sort":   {"-ratingsAverage,price"},
		"fields": {"name,price,ratingsAverage,difficulty"},
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, values url.Values) {
	q := listquery.Parse(translateQuery(values), allowedTourFields)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tours, err := h.Tours.List(ctx, q)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	shared.List(w, "tours", tours, len(tours))
}

// tourInput carries client-supplied tour fields. Pointers distinguish
// "absent" from zero on update.
type tourInput struct {
	Name          *string     `json:"name"`
	Duration      *int        `json:"duration"`
	MaxGroupSize  *int        `json:"maxGroupSize"`
	Difficulty    *string     `json:"difficulty"`
	Price         *float64    `json:"price"`
	PriceDiscount *float64    `json:"priceDiscount"`
	Summary       *string     `json:"summary"`
	Description   *string     `json:"description"`
	ImageCover    *string     `json:"imageCover"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	SecretTour    *bool       `json:"secretTour"`
}

// HandleCreate serves POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in tourInput
	if err := shared.Decode(r, &in); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	t := models.Tour{
		PriceDiscount: in.PriceDiscount,
		Images:        in.Images,
		StartDates:    in.StartDates,
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Duration != nil {
		t.Duration = *in.Duration
	}
	if in.MaxGroupSize != nil {
		t.MaxGroupSize = *in.MaxGroupSize
	}
	if in.Difficulty != nil {
		t.Difficulty = *in.Difficulty
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.Summary != nil {
		t.Summary = *in.Summary
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.ImageCover != nil {
		t.ImageCover = *in.ImageCover
	}
	if in.SecretTour != nil {
		t.SecretTour = *in.SecretTour
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Tours.Create(ctx, t)
	if err != nil {
		if errors.Is(err, tourstore.ErrDuplicateName) {
			h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
			return
		}
		h.Errors.Write(w, r, err)
		return
	}

	h.Log.Info("tour created", zap.String("tour_id", created.ID.Hex()), zap.String("slug", created.Slug))
	shared.Data(w, http.StatusCreated, "tour", created)
}

// HandleGet serves GET /{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tourID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	tour, err := h.Tours.GetByID(ctx, id)
	if err != nil {
		h.writeTourErr(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "tour", tour)
}

// HandleUpdate serves PATCH /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tourID(w, r)
	if !ok {
		return
	}

	var in tourInput
	if err := shared.Decode(r, &in); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Tours.UpdateByID(ctx, id, tourstore.Update{
		Name:          in.Name,
		Duration:      in.Duration,
		MaxGroupSize:  in.MaxGroupSize,
		Difficulty:    in.Difficulty,
		Price:         in.Price,
		PriceDiscount: in.PriceDiscount,
		Summary:       in.Summary,
		Description:   in.Description,
		ImageCover:    in.ImageCover,
		Images:        in.Images,
		StartDates:    in.StartDates,
		SecretTour:    in.SecretTour,
	})
	if err != nil {
		h.writeTourErr(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "tour", updated)
}

// HandleDelete serves DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tourID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tours.DeleteByID(ctx, id); err != nil {
		h.writeTourErr(w, r, err)
		return
	}
	h.Log.Info("tour deleted", zap.String("tour_id", id.Hex()))
	shared.NoContent(w)
}

// HandleStats serves GET /tour-stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.Tours.Stats(ctx)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "stats", stats)
}

// HandleMonthlyPlan serves GET /monthly-plan/{year}.
func (h *Handler) HandleMonthlyPlan(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid year"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plan, err := h.Tours.MonthlyPlan(ctx, year)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "plan", plan)
}

func (h *Handler) tourID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid tour ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeTourErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tourstore.ErrNotFound) {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindNotFound, "No tour found with that ID"))
		return
	}
	if errors.Is(err, tourstore.ErrDuplicateName) {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
		return
	}
	h.Errors.Write(w, r, err)
}
