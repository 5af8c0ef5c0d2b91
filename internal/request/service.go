// Package request はレンタルリクエストのドメインロジックを提供する。
package request

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/repository"
	"github.com/orirot10/shortstay-api/internal/security"
)

// maxListResults は一覧取得の最大件数。
const maxListResults = 100

// 入力フィールドの文字数・数値境界。
const (
	areaMinLen   = 2
	areaMaxLen   = 80
	budgetMin    = 0
	budgetMax    = 1_000_000
	textMinLen   = 5
	textMaxLen   = 2000
)

// CreateInput はレンタルリクエスト作成の入力。
// DateFromとDateToはISO-8601形式の文字列で、空文字列は未設定を表す。
type CreateInput struct {
	Area      string
	DateFrom  string
	DateTo    string
	BudgetMax *int
	Text      string
}

// Service はレンタルリクエストのサービス層。
type Service struct {
	requestRepo repository.RequestRepository
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(requestRepo repository.RequestRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		requestRepo: requestRepo,
		sanitizer:   sanitizer,
	}
}

// Create は新しいレンタルリクエストを作成する。
// 日付範囲が両方指定されている場合はdateFrom <= dateToを要求する。
// ステータスはACTIVEで作成される。
func (s *Service) Create(ctx context.Context, authorID string, input CreateInput) (*model.RentalRequest, error) {
	area := s.sanitizer.SanitizePlain(input.Area)
	text := s.sanitizer.SanitizePlain(input.Text)

	if n := utf8.RuneCountInString(area); n < areaMinLen || n > areaMaxLen {
		return nil, model.NewValidationError(fmt.Sprintf("エリアは%d〜%d文字で入力してください", areaMinLen, areaMaxLen))
	}
	if n := utf8.RuneCountInString(text); n < textMinLen || n > textMaxLen {
		return nil, model.NewValidationError(fmt.Sprintf("本文は%d〜%d文字で入力してください", textMinLen, textMaxLen))
	}
	if input.BudgetMax != nil && (*input.BudgetMax < budgetMin || *input.BudgetMax > budgetMax) {
		return nil, model.NewValidationError(fmt.Sprintf("予算上限は%d〜%dの整数で入力してください", budgetMin, budgetMax))
	}

	dateFrom, err := parseOptionalDate(input.DateFrom, "dateFrom")
	if err != nil {
		return nil, err
	}
	dateTo, err := parseOptionalDate(input.DateTo, "dateTo")
	if err != nil {
		return nil, err
	}
	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		return nil, model.NewValidationError("dateFromはdateTo以前である必要があります")
	}

	now := time.Now().UTC()
	req := &model.RentalRequest{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Area:      area,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		BudgetMax: input.BudgetMax,
		Text:      text,
		Status:    model.RequestStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}

	return req, nil
}

// ListActive は募集中のリクエストを新しい順で最大100件返す。
// areaが空でない場合は完全一致で絞り込む。
func (s *Service) ListActive(ctx context.Context, area string) ([]*model.RentalRequest, error) {
	requests, err := s.requestRepo.ListActive(ctx, area, maxListResults)
	if err != nil {
		return nil, fmt.Errorf("リクエスト一覧の取得に失敗しました: %w", err)
	}
	return requests, nil
}

// ListMine は指定ユーザーの全リクエストをステータスに関係なく新しい順で最大100件返す。
func (s *Service) ListMine(ctx context.Context, authorID string) ([]*model.RentalRequest, error) {
	requests, err := s.requestRepo.ListByAuthor(ctx, authorID, maxListResults)
	if err != nil {
		return nil, fmt.Errorf("自分のリクエスト一覧の取得に失敗しました: %w", err)
	}
	return requests, nil
}

// parseOptionalDate はISO-8601形式の日時文字列をパースする。
// 空文字列はnilを返す。
func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("%sはISO-8601形式の日時で入力してください", field))
	}
	utc := t.UTC()
	return &utc, nil
}
