package usecase

import (
	"time"

	"github.com/tendermesh/matching-backend/internal/domain"
)

// MATCHING

// MatchReq — запрос на подбор поставщиков под тендер.
type MatchReq struct {
	Tender domain.Tender
	TopK   int
}

// MatchResult — один кандидат в выдаче с оценкой и объяснениями.
type MatchResult struct {
	VendorID        string
	CompanyName     string
	MatchScore      float64
	MatchPercentage int
	MatchReasons    []string
	VendorDetails   VendorDetails
	Ranking         int
}

// VendorDetails — снимок профиля поставщика на момент подбора.
type VendorDetails struct {
	CompanyName    string
	Industries     []string
	Categories     []string
	States         []string
	BusinessType   string
	AnnualTurnover string
	Certifications []string
	Products       []string
	Description    string
}

// MatchResponse — итог подбора по тендеру.
type MatchResponse struct {
	TenderID     string
	TotalMatches int
	Matches      []MatchResult
	SearchTimeMs float64
}

// VendorHit — кандидат из векторного поиска до фильтрации и скоринга.
type VendorHit struct {
	Vendor domain.Vendor
	Score  float64
}

// SearchFilter — необязательный фильтр векторного поиска на стороне хранилища.
type SearchFilter struct {
	States   []string
	Industry string
}

// VENDORS

type AddVendorReq struct {
	Vendor domain.Vendor
}

type VendorInfo struct {
	Vendor domain.Vendor
}

type UpdateVendorReq struct {
	VendorID string
	Update   domain.VendorUpdate
}

type UpdateVendorRes struct {
	VendorID      string
	UpdatedFields []string
}

type SyncVendorsReq struct {
	Vendors     []domain.Vendor
	ForceUpdate bool
}

type SyncVendorsRes struct {
	Synced  int
	Updated int
	Failed  int
	Errors  []string
}

// VendorEmbedding — пара «поставщик + вектор» для батчевой записи.
type VendorEmbedding struct {
	Vendor domain.Vendor
	Vector []float32
}

// TENDERS

type AddTenderReq struct {
	Tender domain.Tender
}

// TenderDocument представляет документ, загруженный через multipart/form-data.
type TenderDocument struct {
	Data     []byte
	MimeType string
	Size     int64
	Name     string // оригинальное имя файла (для логов)
}

type AttachDocumentsReq struct {
	TenderID  string
	Documents []TenderDocument
}

type AttachDocumentsRes struct {
	TenderID     string
	DocumentKeys []string
}

// UploadDocumentsReq — запрос инфраструктуре на загрузку документов в S3.
type UploadDocumentsReq struct {
	TenderID  string
	Documents []TenderDocument
}

// UploadDocumentsRes — ключи загруженных объектов.
type UploadDocumentsRes struct {
	DocumentKeys []string
}

// FEEDBACK

type FeedbackReq struct {
	TenderID     string
	VendorID     string
	MatchSuccess bool
	Selected     bool
	Rating       *int
	Comments     string
}

// FeedbackResult — структурированный итог обработки обратной связи.
// Обработка никогда не возвращает ошибку вызывающему.
type FeedbackResult struct {
	Adjustment domain.Adjustment
	Reason     string
	VendorID   string
	TenderID   string
	Weight     float64
	Timestamp  time.Time
}

// SYSTEM

type CacheStats struct {
	TotalEntries        int
	ValidEntries        int
	ExpiredEntries      int
	StaleVersionEntries int
	CacheVersion        string
	MaxCacheSize        int
	TTL                 time.Duration
}

type HealthRes struct {
	Status   string
	Database string
	Stats    *StatsRes
	Error    string
}

type StatsRes struct {
	VendorsCount    uint64
	TendersCount    uint64
	VectorDimension uint64
	EmbeddingModel  string
	CacheEntries    int
}

// MAPPERS

func NewMatchResult(vendor domain.Vendor, score float64, reasons []string, rank int) MatchResult {
	return MatchResult{
		VendorID:        vendor.ID,
		CompanyName:     vendor.CompanyName,
		MatchScore:      score,
		MatchPercentage: int(score * 100),
		MatchReasons:    reasons,
		VendorDetails:   NewVendorDetails(vendor),
		Ranking:         rank,
	}
}

func NewVendorDetails(v domain.Vendor) VendorDetails {
	return VendorDetails{
		CompanyName:    v.CompanyName,
		Industries:     v.Industries,
		Categories:     v.Categories,
		States:         v.States,
		BusinessType:   v.BusinessType,
		AnnualTurnover: v.AnnualTurnover,
		Certifications: v.Certifications,
		Products:       v.Products,
		Description:    v.Description,
	}
}

func NewMatchResponse(tenderID string, matches []MatchResult, searchTimeMs float64) *MatchResponse {
	return &MatchResponse{
		TenderID:     tenderID,
		TotalMatches: len(matches),
		Matches:      matches,
		SearchTimeMs: searchTimeMs,
	}
}

func NewVendorEmbedding(vendor domain.Vendor, vector []float32) VendorEmbedding {
	return VendorEmbedding{
		Vendor: vendor,
		Vector: vector,
	}
}

func NewFeedbackNone(req *FeedbackReq, reason string) *FeedbackResult {
	return &FeedbackResult{
		Adjustment: domain.AdjustmentNone,
		Reason:     reason,
		VendorID:   req.VendorID,
		TenderID:   req.TenderID,
		Timestamp:  time.Now().UTC(),
	}
}

func NewFeedbackError(req *FeedbackReq, reason string) *FeedbackResult {
	return &FeedbackResult{
		Adjustment: domain.AdjustmentError,
		Reason:     reason,
		VendorID:   req.VendorID,
		TenderID:   req.TenderID,
		Timestamp:  time.Now().UTC(),
	}
}

func NewFeedbackApplied(req *FeedbackReq, weight float64) *FeedbackResult {
	return &FeedbackResult{
		Adjustment: domain.AdjustmentApplied,
		VendorID:   req.VendorID,
		TenderID:   req.TenderID,
		Weight:     weight,
		Timestamp:  time.Now().UTC(),
	}
}
