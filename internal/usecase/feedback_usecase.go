package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
	"github.com/tendermesh/matching-backend/pkg/vec"
)

// FeedbackUseCase корректирует эмбеддинги поставщиков по обратной связи.
// Обработка никогда не возвращает ошибку: любой отказ деградирует
// в структурированный результат с adjustment = "error".
type FeedbackUseCase struct {
	embeddings    Embeddings
	vendorVectors VendorVectorRepository
	feedbackRepo  FeedbackEventRepository
	producer      EventProducer
	logger        logger.Logger
	cfg           *cfg.MatchingCfg
}

func NewFeedbackUC(
	embeddings Embeddings,
	vendorVectors VendorVectorRepository,
	feedbackRepo FeedbackEventRepository,
	producer EventProducer,
	logger logger.Logger,
	cfg *cfg.MatchingCfg,
) *FeedbackUseCase {
	return &FeedbackUseCase{
		embeddings:    embeddings,
		vendorVectors: vendorVectors,
		feedbackRepo:  feedbackRepo,
		producer:      producer,
		logger:        logger,
		cfg:           cfg,
	}
}

// ProcessFeedback обрабатывает сигнал об итоге сотрудничества. Корректировка
// применяется только к положительной обратной связи по выбранному поставщику:
// вектор профиля смещается к вектору текстового сигнала успеха с весом,
// пропорциональным оценке, и нормализуется обратно к единичной длине.
func (f *FeedbackUseCase) ProcessFeedback(ctx context.Context, req *FeedbackReq) *FeedbackResult {
	f.logger.Infof(
		"processing feedback. tender_id: %s, vendor_id: %s, success: %t",
		req.TenderID, req.VendorID, req.MatchSuccess,
	)

	var res *FeedbackResult

	switch {
	case !req.MatchSuccess || !req.Selected:
		f.logger.Infof("negative or unselected feedback, no embedding adjustment")
		res = NewFeedbackNone(req, "negative_feedback_or_not_selected")
	default:
		res = f.adjust(ctx, req)
	}

	f.record(ctx, req, res)

	return res
}

func (f *FeedbackUseCase) adjust(ctx context.Context, req *FeedbackReq) *FeedbackResult {
	const op = "FeedbackUseCase.adjust"

	vendor, err := f.vendorVectors.Retrieve(ctx, req.VendorID)
	if err != nil {
		f.logger.Warnf("vendor not found for feedback. vendor_id: %s, error: %v", req.VendorID, e.Wrap(op, err))
		return NewFeedbackNone(req, "vendor_not_found")
	}

	weight := f.cfg.FeedbackWeight
	if req.Rating != nil {
		weight *= float64(*req.Rating) / 5.0
	}

	// Исходный вектор восстанавливается из текста профиля, а не из точки:
	// корректировка всегда отталкивается от чистого профиля, и повторные
	// сигналы не накапливают дрейф.
	original, err := f.embeddings.Get(ctx, vendorText(vendor))
	if err != nil {
		f.logger.Errorf(err, "feedback adjustment failed. vendor_id: %s", req.VendorID)
		return NewFeedbackError(req, err.Error())
	}

	target, err := f.embeddings.Get(ctx, adjustmentSignal(req, vendor))
	if err != nil {
		f.logger.Errorf(err, "feedback adjustment failed. vendor_id: %s", req.VendorID)
		return NewFeedbackError(req, err.Error())
	}

	adjusted := vec.Normalize(vec.Blend(original, target, weight))

	if err := f.vendorVectors.UpdateVector(ctx, req.VendorID, adjusted); err != nil {
		f.logger.Errorf(err, "feedback adjustment failed. vendor_id: %s", req.VendorID)
		return NewFeedbackError(req, err.Error())
	}

	f.logger.Infof("updated embedding for vendor %s, weight: %.3f", req.VendorID, weight)

	return NewFeedbackApplied(req, weight)
}

// record пишет итог обработки в журнал и публикует событие для аналитики.
// Оба действия выполняются по возможности и не влияют на результат.
func (f *FeedbackUseCase) record(ctx context.Context, req *FeedbackReq, res *FeedbackResult) {
	const op = "FeedbackUseCase.record"

	event := &domain.FeedbackEvent{
		ID:           uuid.NewString(),
		TenderID:     req.TenderID,
		VendorID:     req.VendorID,
		MatchSuccess: req.MatchSuccess,
		Selected:     req.Selected,
		Rating:       req.Rating,
		Comments:     req.Comments,
		Adjustment:   res.Adjustment,
		Reason:       res.Reason,
		Weight:       res.Weight,
		CreatedAt:    time.Now().UTC(),
	}

	if err := f.feedbackRepo.Insert(ctx, event); err != nil {
		f.logger.Warnf("failed to persist feedback event: %v", e.Wrap(op, err))
	}

	if err := f.producer.PublishFeedbackEvent(ctx, event); err != nil {
		f.logger.Warnf("failed to publish feedback event: %v", e.Wrap(op, err))
	}
}

// adjustmentSignal строит текст положительного сигнала для векторизации.
func adjustmentSignal(req *FeedbackReq, vendor *domain.Vendor) string {
	parts := []string{
		fmt.Sprintf("Successful match for: %s", vendor.CompanyName),
		fmt.Sprintf("Matched tender type: %s", req.TenderID),
	}

	if req.Comments != "" {
		parts = append(parts, fmt.Sprintf("Feedback: %s", req.Comments))
	}

	if req.Rating != nil && *req.Rating >= 4 {
		parts = append(parts, "Highly rated match - strong positive signal")
	}

	return strings.Join(parts, " | ")
}
