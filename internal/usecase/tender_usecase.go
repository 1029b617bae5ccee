package usecase

import (
	"context"

	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

// TenderUseCase реализует сохранение тендеров и работу с их документами.
type TenderUseCase struct {
	embeddings    Embeddings
	tenderVectors TenderVectorRepository
	idRegistry    IDRegistryRepository
	docsInfra     DocumentsInfra
	logger        logger.Logger
}

func NewTenderUC(
	embeddings Embeddings,
	tenderVectors TenderVectorRepository,
	idRegistry IDRegistryRepository,
	docsInfra DocumentsInfra,
	logger logger.Logger,
) *TenderUseCase {
	return &TenderUseCase{
		embeddings:    embeddings,
		tenderVectors: tenderVectors,
		idRegistry:    idRegistry,
		docsInfra:     docsInfra,
		logger:        logger,
	}
}

// AddTender векторизует тендер и идемпотентно сохраняет его в хранилище.
// У существующего тендера обновляется только вектор, payload остается прежним.
func (t *TenderUseCase) AddTender(ctx context.Context, req *AddTenderReq) error {
	const op = "TenderUseCase.AddTender"

	if err := validateTender(&req.Tender); err != nil {
		return e.Wrap(op, err)
	}

	vector, err := t.embeddings.Get(ctx, tenderText(&req.Tender))
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := t.idRegistry.Register(ctx, domain.KindTender, req.Tender.ID); err != nil {
		return e.Wrap(op, err)
	}

	if err := t.tenderVectors.UpsertPreserving(ctx, &req.Tender, vector); err != nil {
		return e.Wrap(op, err)
	}

	t.logger.Infof("tender stored. tender_id: %s, title: %s", req.Tender.ID, req.Tender.Title)

	return nil
}

// AttachDocuments загружает сопроводительные документы тендера в S3 и привязывает
// ключи объектов к точке тендера. При отказе записи загруженные объекты чистятся.
func (t *TenderUseCase) AttachDocuments(ctx context.Context, req *AttachDocumentsReq) (*AttachDocumentsRes, error) {
	const op = "TenderUseCase.AttachDocuments"

	if len(req.Documents) == 0 {
		return nil, e.Wrap(op, e.ErrNoDocuments)
	}

	tender, err := t.tenderVectors.Retrieve(ctx, req.TenderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	uploadRes, err := t.docsInfra.UploadDocuments(ctx, &UploadDocumentsReq{
		TenderID:  req.TenderID,
		Documents: req.Documents,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	keys := append(tender.DocumentKeys, uploadRes.DocumentKeys...)

	if err := t.tenderVectors.SetDocumentKeys(ctx, req.TenderID, keys); err != nil {
		t.logger.Warnf("cleaning up orphaned documents after store failure. tender_id: %s, error: %v",
			req.TenderID, e.Wrap(op, err))
		t.docsInfra.CleanupDocuments(uploadRes.DocumentKeys)
		return nil, e.Wrap(op, err)
	}

	t.logger.Infof("documents attached. tender_id: %s, count: %d", req.TenderID, len(uploadRes.DocumentKeys))

	return &AttachDocumentsRes{
		TenderID:     req.TenderID,
		DocumentKeys: uploadRes.DocumentKeys,
	}, nil
}

func validateTender(tender *domain.Tender) error {
	switch {
	case tender.ID == "":
		return e.ErrTenderIDRequired
	case tender.Title == "":
		return e.ErrTenderTitleRequired
	case tender.Industry == "":
		return e.ErrIndustryRequired
	case !tender.StatePreference.Valid():
		return e.ErrInvalidStatePreference
	case tender.StatePreference == domain.StatePrefSpecificStates && len(tender.States) == 0:
		return e.ErrStatesRequired
	}

	return nil
}
