package usecase

import (
	"context"
	"fmt"

	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// VendorUseCase реализует управление профилями поставщиков.
type VendorUseCase struct {
	embeddings    Embeddings
	vendorVectors VendorVectorRepository
	idRegistry    IDRegistryRepository
	feedbackRepo  FeedbackEventRepository
	dbPool        transaction.Transactional
	logger        logger.Logger
}

func NewVendorUC(
	embeddings Embeddings,
	vendorVectors VendorVectorRepository,
	idRegistry IDRegistryRepository,
	feedbackRepo FeedbackEventRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *VendorUseCase {
	return &VendorUseCase{
		embeddings:    embeddings,
		vendorVectors: vendorVectors,
		idRegistry:    idRegistry,
		feedbackRepo:  feedbackRepo,
		dbPool:        dbPool,
		logger:        logger,
	}
}

// AddVendor векторизует профиль поставщика и сохраняет его в хранилище.
// Повторный вызов с тем же идентификатором перезаписывает профиль.
func (v *VendorUseCase) AddVendor(ctx context.Context, req *AddVendorReq) error {
	const op = "VendorUseCase.AddVendor"

	if req.Vendor.ID == "" {
		return e.Wrap(op, e.ErrVendorIDRequired)
	}
	if req.Vendor.CompanyName == "" {
		return e.Wrap(op, e.ErrCompanyNameRequired)
	}

	vector, err := v.embeddings.Get(ctx, vendorText(&req.Vendor))
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := v.idRegistry.Register(ctx, domain.KindVendor, req.Vendor.ID); err != nil {
		return e.Wrap(op, err)
	}

	if err := v.vendorVectors.Upsert(ctx, &req.Vendor, vector); err != nil {
		return e.Wrap(op, err)
	}

	v.logger.Infof("vendor stored. vendor_id: %s, company: %s", req.Vendor.ID, req.Vendor.CompanyName)

	return nil
}

// GetVendor возвращает сохраненный профиль поставщика.
func (v *VendorUseCase) GetVendor(ctx context.Context, vendorID string) (*VendorInfo, error) {
	const op = "VendorUseCase.GetVendor"

	vendor, err := v.vendorVectors.Retrieve(ctx, vendorID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &VendorInfo{Vendor: *vendor}, nil
}

// UpdateVendor применяет частичное обновление профиля. Поля со значением nil
// не меняются. Профиль векторизуется заново, так как текст мог измениться.
func (v *VendorUseCase) UpdateVendor(ctx context.Context, req *UpdateVendorReq) (*UpdateVendorRes, error) {
	const op = "VendorUseCase.UpdateVendor"

	if req.Update.IsEmpty() {
		return nil, e.Wrap(op, e.ErrNoUpdateFields)
	}

	current, err := v.vendorVectors.Retrieve(ctx, req.VendorID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updated := req.Update.Apply(*current)

	vector, err := v.embeddings.Get(ctx, vendorText(&updated))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := v.vendorVectors.Upsert(ctx, &updated, vector); err != nil {
		return nil, e.Wrap(op, err)
	}

	fields := req.Update.Fields()
	v.logger.Infof("vendor updated. vendor_id: %s, fields: %v", req.VendorID, fields)

	return &UpdateVendorRes{
		VendorID:      req.VendorID,
		UpdatedFields: fields,
	}, nil
}

// DeleteVendor удаляет поставщика из векторного хранилища и в одной транзакции
// чистит запись реестра идентификаторов и журнал его обратной связи.
func (v *VendorUseCase) DeleteVendor(ctx context.Context, vendorID string) error {
	const op = "VendorUseCase.DeleteVendor"

	exists, err := v.vendorVectors.Exists(ctx, vendorID)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !exists {
		return e.Wrap(op, e.ErrVendorNotFound)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, v.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = v.idRegistry.Delete(ctx, domain.KindVendor, vendorID); err != nil {
		return e.Wrap(op, err)
	}

	if err = v.feedbackRepo.DeleteByVendor(ctx, vendorID); err != nil {
		return e.Wrap(op, err)
	}

	if err = v.vendorVectors.Delete(ctx, vendorID); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	v.logger.Infof("vendor deleted. vendor_id: %s", vendorID)

	return nil
}

// SyncVendors выполняет батчевую синхронизацию профилей из внешней системы.
// Ошибки отдельных профилей не прерывают остальные: итог содержит счетчики
// и список ошибок по каждому проблемному профилю.
func (v *VendorUseCase) SyncVendors(ctx context.Context, req *SyncVendorsReq) (*SyncVendorsRes, error) {
	const op = "VendorUseCase.SyncVendors"

	res := &SyncVendorsRes{}

	var batch []VendorEmbedding

	for _, vendor := range req.Vendors {
		if vendor.ID == "" || vendor.CompanyName == "" {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("vendor %q: missing required fields", vendor.ID))
			continue
		}

		exists, err := v.vendorVectors.Exists(ctx, vendor.ID)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("vendor %q: %v", vendor.ID, err))
			continue
		}

		// Уже известный профиль без force_update не переписывается,
		// но учитывается в счетчике updated.
		if exists && !req.ForceUpdate {
			res.Updated++
			continue
		}

		vector, err := v.embeddings.Get(ctx, vendorText(&vendor))
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("vendor %q: %v", vendor.ID, err))
			continue
		}

		if !exists {
			if err := v.idRegistry.Register(ctx, domain.KindVendor, vendor.ID); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("vendor %q: %v", vendor.ID, err))
				continue
			}
		}

		res.Synced++
		batch = append(batch, NewVendorEmbedding(vendor, vector))
	}

	if len(batch) > 0 {
		if err := v.vendorVectors.UpsertBatch(ctx, batch); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	v.logger.Infof(
		"vendor sync completed. synced: %d, updated: %d, failed: %d",
		res.Synced, res.Updated, res.Failed,
	)

	return res, nil
}
