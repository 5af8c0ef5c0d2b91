package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/orirot10/shortstay-api/internal/middleware"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/request"
)

// RequestServiceInterface はレンタルリクエストハンドラーが必要とするサービスインターフェース。
type RequestServiceInterface interface {
	// Create は新しいレンタルリクエストを作成する。
	Create(ctx context.Context, authorID string, input request.CreateInput) (*model.RentalRequest, error)
	// ListActive は募集中のリクエストを新しい順で返す。
	ListActive(ctx context.Context, area string) ([]*model.RentalRequest, error)
	// ListMine は指定ユーザーの全リクエストを新しい順で返す。
	ListMine(ctx context.Context, authorID string) ([]*model.RentalRequest, error)
}

// RequestHandler はレンタルリクエストのHTTPハンドラー。
type RequestHandler struct {
	service RequestServiceInterface
}

// NewRequestHandler はRequestHandlerを生成する。
func NewRequestHandler(service RequestServiceInterface) *RequestHandler {
	return &RequestHandler{service: service}
}

// createRequestRequest はリクエスト作成のボディ。
// dateFrom / dateToはISO-8601形式の文字列。
type createRequestRequest struct {
	Area      string `json:"area"`
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
	BudgetMax *int   `json:"budgetMax"`
	Text      string `json:"text"`
}

// rentalRequestResponse はレンタルリクエストのAPIレスポンス。
// AuthorIDは自分のリクエスト一覧では省略される。
type rentalRequestResponse struct {
	ID        string     `json:"id"`
	AuthorID  string     `json:"authorId,omitempty"`
	Area      string     `json:"area"`
	DateFrom  *time.Time `json:"dateFrom"`
	DateTo    *time.Time `json:"dateTo"`
	BudgetMax *int       `json:"budgetMax"`
	Text      string     `json:"text"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toRentalRequestResponse(req *model.RentalRequest, includeAuthor bool) rentalRequestResponse {
	resp := rentalRequestResponse{
		ID:        req.ID,
		Area:      req.Area,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		BudgetMax: req.BudgetMax,
		Text:      req.Text,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if includeAuthor {
		resp.AuthorID = req.AuthorID
	}
	return resp
}

// ListActive は募集中のリクエスト一覧を取得する。
// GET /requests?area=
func (h *RequestHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))

	requests, err := h.service.ListActive(r.Context(), area)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]rentalRequestResponse, len(requests))
	for i, req := range requests {
		items[i] = toRentalRequestResponse(req, true)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListMine は自分のリクエスト一覧をステータスに関係なく取得する。
// GET /requests/mine
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	requests, err := h.service.ListMine(r.Context(), ident.Subject)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]rentalRequestResponse, len(requests))
	for i, req := range requests {
		items[i] = toRentalRequestResponse(req, false)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create は新しいレンタルリクエストを作成する。
// POST /requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	created, err := h.service.Create(r.Context(), ident.Subject, request.CreateInput{
		Area:      req.Area,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		BudgetMax: req.BudgetMax,
		Text:      req.Text,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}
