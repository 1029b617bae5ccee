package usecase

import "context"

type MatchingUC interface {
	FindMatchingVendors(ctx context.Context, req *MatchReq) (*MatchResponse, error)
}

type VendorUC interface {
	AddVendor(ctx context.Context, vendor *AddVendorReq) error
	GetVendor(ctx context.Context, vendorID string) (*VendorInfo, error)
	UpdateVendor(ctx context.Context, req *UpdateVendorReq) (*UpdateVendorRes, error)
	DeleteVendor(ctx context.Context, vendorID string) error
	SyncVendors(ctx context.Context, req *SyncVendorsReq) (*SyncVendorsRes, error)
}

type TenderUC interface {
	AddTender(ctx context.Context, req *AddTenderReq) error
	AttachDocuments(ctx context.Context, req *AttachDocumentsReq) (*AttachDocumentsRes, error)
}

type FeedbackUC interface {
	ProcessFeedback(ctx context.Context, req *FeedbackReq) *FeedbackResult
}

type SystemUC interface {
	Health(ctx context.Context) *HealthRes
	Stats(ctx context.Context) (*StatsRes, error)
	CacheStats() CacheStats
	ClearCache()
}
