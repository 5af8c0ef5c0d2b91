package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/orirot10/shortstay-api/internal/listing"
	"github.com/orirot10/shortstay-api/internal/middleware"
	"github.com/orirot10/shortstay-api/internal/model"
)

// ListingServiceInterface は物件ハンドラーが必要とするサービスインターフェース。
type ListingServiceInterface interface {
	// Create は新しい物件リスティングを作成する。
	Create(ctx context.Context, ownerID string, input listing.CreateInput) (*model.Listing, error)
	// List は条件に一致する物件を新しい順で返す。
	List(ctx context.Context, filter listing.ListFilter) ([]*model.Listing, error)
	// GetByID は指定IDの物件を取得する。
	GetByID(ctx context.Context, id string) (*model.Listing, error)
}

// ListingHandler は物件リスティングのHTTPハンドラー。
type ListingHandler struct {
	service ListingServiceInterface
}

// NewListingHandler はListingHandlerを生成する。
func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// imageRef は物件画像のストレージパス参照。
type imageRef struct {
	StoragePath string `json:"storagePath"`
}

// createListingRequest は物件作成リクエストのボディ。
type createListingRequest struct {
	Title            string     `json:"title"`
	Area             string     `json:"area"`
	PricePerNight    int        `json:"pricePerNight"`
	Description      string     `json:"description"`
	AvailabilityText string     `json:"availabilityText"`
	Images           []imageRef `json:"images"`
}

// listingResponse は物件情報のAPIレスポンス。
type listingResponse struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"ownerId"`
	Title            string     `json:"title"`
	Area             string     `json:"area"`
	PricePerNight    int        `json:"pricePerNight"`
	Description      string     `json:"description"`
	AvailabilityText string     `json:"availabilityText,omitempty"`
	Status           string     `json:"status"`
	Images           []imageRef `json:"images"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toListingResponse(l *model.Listing) listingResponse {
	images := make([]imageRef, len(l.Images))
	for i, path := range l.Images {
		images[i] = imageRef{StoragePath: path}
	}
	return listingResponse{
		ID:               l.ID,
		OwnerID:          l.OwnerID,
		Title:            l.Title,
		Area:             l.Area,
		PricePerNight:    l.PricePerNight,
		Description:      l.Description,
		AvailabilityText: l.AvailabilityText,
		Status:           string(l.Status),
		Images:           images,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// List は公開中の物件一覧を取得する。
// GET /listings?area=&status=&priceMax=
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := listing.ListFilter{
		Area:   strings.TrimSpace(r.URL.Query().Get("area")),
		Status: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
	}

	if raw := r.URL.Query().Get("priceMax"); raw != "" {
		priceMax, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("priceMaxは整数で指定してください"))
			return
		}
		filter.PriceMax = &priceMax
	}

	listings, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]listingResponse, len(listings))
	for i, l := range listings {
		items[i] = toListingResponse(l)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Get は指定IDの物件を取得する。
// GET /listings/:id
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": toListingResponse(l)})
}

// Create は新しい物件を作成する。
// POST /listings
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	images := make([]string, len(req.Images))
	for i, img := range req.Images {
		images[i] = img.StoragePath
	}

	created, err := h.service.Create(r.Context(), ident.Subject, listing.CreateInput{
		Title:            req.Title,
		Area:             req.Area,
		PricePerNight:    req.PricePerNight,
		Description:      req.Description,
		AvailabilityText: req.AvailabilityText,
		Images:           images,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}
