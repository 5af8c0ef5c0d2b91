// Package listing は物件リスティングのドメインロジックを提供する。
package listing

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/orirot10/shortstay-api/internal/metrics"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/repository"
	"github.com/orirot10/shortstay-api/internal/security"
)

// maxListResults は一覧取得の最大件数。
const maxListResults = 50

// 入力フィールドの文字数・数値境界。
const (
	titleMinLen        = 3
	titleMaxLen        = 80
	areaMinLen         = 2
	areaMaxLen         = 80
	priceMin           = 0
	priceMax           = 1_000_000
	descriptionMinLen  = 10
	descriptionMaxLen  = 5000
	availabilityMaxLen = 500
	imagePathMinLen    = 3
	imagePathMaxLen    = 300
)

// CreateInput は物件作成の入力。
type CreateInput struct {
	Title            string
	Area             string
	PricePerNight    int
	Description      string
	AvailabilityText string
	Images           []string
}

// Service は物件リスティングのサービス層。
// 作成、一覧取得、個別取得のビジネスロジックを提供する。
type Service struct {
	listingRepo repository.ListingRepository
	sanitizer   security.TextSanitizerService
	collector   metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	listingRepo repository.ListingRepository,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		listingRepo: listingRepo,
		sanitizer:   sanitizer,
		collector:   collector,
	}
}

// Create は新しい物件リスティングを作成する。
// 自由記述フィールドはサニタイズ後に検証され、ステータスはACTIVEで作成される。
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*model.Listing, error) {
	title := s.sanitizer.SanitizePlain(input.Title)
	area := s.sanitizer.SanitizePlain(input.Area)
	description := s.sanitizer.SanitizePlain(input.Description)
	availability := s.sanitizer.SanitizePlain(input.AvailabilityText)

	if err := validateCreateInput(title, area, input.PricePerNight, description, availability, input.Images); err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	listing := &model.Listing{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            title,
		Area:             area,
		PricePerNight:    input.PricePerNight,
		Description:      description,
		AvailabilityText: availability,
		Status:           model.ListingStatusActive,
		Images:           images,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("物件の作成に失敗しました: %w", err)
	}

	s.collector.RecordListingCreated()
	return listing, nil
}

// ListFilter は一覧取得の絞り込み条件。
type ListFilter struct {
	Area     string // 空の場合は絞り込まない
	Status   string // 空の場合はACTIVEのみ
	PriceMax *int   // nilの場合は絞り込まない
}

// List は条件に一致する物件を新しい順で最大50件返す。
// ステータス未指定時はACTIVEのみを返す。不正なステータス値は検証エラー。
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*model.Listing, error) {
	status := model.ListingStatusActive
	if filter.Status != "" {
		status = model.ListingStatus(filter.Status)
		if !status.IsValid() {
			return nil, model.NewValidationError(fmt.Sprintf("不正なステータス値です: %s", filter.Status))
		}
	}

	if filter.PriceMax != nil && *filter.PriceMax < 0 {
		return nil, model.NewValidationError("priceMaxは0以上である必要があります")
	}

	listings, err := s.listingRepo.List(ctx, repository.ListingFilter{
		Area:     filter.Area,
		Status:   status,
		PriceMax: filter.PriceMax,
		Limit:    maxListResults,
	})
	if err != nil {
		return nil, fmt.Errorf("物件一覧の取得に失敗しました: %w", err)
	}

	return listings, nil
}

// GetByID は指定IDの物件を取得する。
// IDがUUIDとして不正な場合は検証エラー、存在しない場合はNotFoundエラーを返す。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewInvalidIDError(id)
	}

	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	if listing == nil {
		return nil, model.NewListingNotFoundError(id)
	}

	return listing, nil
}

func validateCreateInput(title, area string, price int, description, availability string, images []string) error {
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return model.NewValidationError(fmt.Sprintf("タイトルは%d〜%d文字で入力してください", titleMinLen, titleMaxLen))
	}
	if n := utf8.RuneCountInString(area); n < areaMinLen || n > areaMaxLen {
		return model.NewValidationError(fmt.Sprintf("エリアは%d〜%d文字で入力してください", areaMinLen, areaMaxLen))
	}
	if price < priceMin || price > priceMax {
		return model.NewValidationError(fmt.Sprintf("1泊あたりの料金は%d〜%dの整数で入力してください", priceMin, priceMax))
	}
	if n := utf8.RuneCountInString(description); n < descriptionMinLen || n > descriptionMaxLen {
		return model.NewValidationError(fmt.Sprintf("説明は%d〜%d文字で入力してください", descriptionMinLen, descriptionMaxLen))
	}
	if n := utf8.RuneCountInString(availability); n > availabilityMaxLen {
		return model.NewValidationError(fmt.Sprintf("空き状況は%d文字以内で入力してください", availabilityMaxLen))
	}
	for _, path := range images {
		if n := utf8.RuneCountInString(path); n < imagePathMinLen || n > imagePathMaxLen {
			return model.NewValidationError(fmt.Sprintf("画像パスは%d〜%d文字で入力してください", imagePathMinLen, imagePathMaxLen))
		}
	}
	return nil
}
