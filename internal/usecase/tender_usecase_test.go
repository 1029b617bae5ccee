package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
)

// fakeDocsInfra имитирует загрузку документов в объектное хранилище.
type fakeDocsInfra struct {
	uploadErr error

	uploaded  []string
	cleanedUp []string
}

func (f *fakeDocsInfra) UploadDocuments(ctx context.Context, req *UploadDocumentsReq) (*UploadDocumentsRes, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}

	keys := make([]string, len(req.Documents))
	for i, doc := range req.Documents {
		keys[i] = req.TenderID + "/" + doc.Name
	}
	f.uploaded = append(f.uploaded, keys...)

	return &UploadDocumentsRes{DocumentKeys: keys}, nil
}

func (f *fakeDocsInfra) CleanupDocuments(keys []string) {
	f.cleanedUp = append(f.cleanedUp, keys...)
}

func (f *fakeDocsInfra) WaitForCleanup(ctx context.Context) error { return nil }

func newTenderFixture(tenders map[string]*domain.Tender) (*TenderUseCase, *fakeTenderVectors, *fakeIDRegistry, *fakeDocsInfra) {
	tenderVectors := &fakeTenderVectors{tenders: tenders}
	idRegistry := &fakeIDRegistry{}
	docsInfra := &fakeDocsInfra{}

	uc := NewTenderUC(
		&fakeEmbeddings{defaultVec: []float32{1, 0}},
		tenderVectors,
		idRegistry,
		docsInfra,
		nopLogger{},
	)

	return uc, tenderVectors, idRegistry, docsInfra
}

func TestAddTender(t *testing.T) {
	uc, tenderVectors, idRegistry, _ := newTenderFixture(nil)

	err := uc.AddTender(context.Background(), &AddTenderReq{
		Tender: domain.Tender{
			ID:              "T1",
			Title:           "Supply of steel pipes",
			Industry:        "Infrastructure",
			StatePreference: domain.StatePrefPanIndia,
		},
	})
	if err != nil {
		t.Fatalf("AddTender: %v", err)
	}

	if len(tenderVectors.upserted) != 1 || tenderVectors.upserted[0] != "T1" {
		t.Errorf("upserted = %v, want [T1]", tenderVectors.upserted)
	}
	if len(idRegistry.registered) != 1 || idRegistry.registered[0] != "tender:T1" {
		t.Errorf("registered = %v, want [tender:T1]", idRegistry.registered)
	}
}

func TestAddTenderValidation(t *testing.T) {
	tests := []struct {
		name    string
		tender  domain.Tender
		wantErr error
	}{
		{
			name:    "missing id",
			tender:  domain.Tender{Title: "Supply", Industry: "Steel", StatePreference: domain.StatePrefPanIndia},
			wantErr: e.ErrTenderIDRequired,
		},
		{
			name:    "missing title",
			tender:  domain.Tender{ID: "T1", Industry: "Steel", StatePreference: domain.StatePrefPanIndia},
			wantErr: e.ErrTenderTitleRequired,
		},
		{
			name:    "missing industry",
			tender:  domain.Tender{ID: "T1", Title: "Supply", StatePreference: domain.StatePrefPanIndia},
			wantErr: e.ErrIndustryRequired,
		},
		{
			name:    "invalid state preference",
			tender:  domain.Tender{ID: "T1", Title: "Supply", Industry: "Steel", StatePreference: "everywhere"},
			wantErr: e.ErrInvalidStatePreference,
		},
		{
			name:    "specific states without states",
			tender:  domain.Tender{ID: "T1", Title: "Supply", Industry: "Steel", StatePreference: domain.StatePrefSpecificStates},
			wantErr: e.ErrStatesRequired,
		},
	}

	uc, _, _, _ := newTenderFixture(nil)

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := uc.AddTender(context.Background(), &AddTenderReq{Tender: test.tender})
			if !errors.Is(err, test.wantErr) {
				t.Errorf("err = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestAttachDocuments(t *testing.T) {
	tender := &domain.Tender{ID: "T1", DocumentKeys: []string{"T1/old.pdf"}}
	uc, tenderVectors, _, docsInfra := newTenderFixture(map[string]*domain.Tender{"T1": tender})

	res, err := uc.AttachDocuments(context.Background(), &AttachDocumentsReq{
		TenderID: "T1",
		Documents: []TenderDocument{
			{Name: "spec.pdf", MimeType: "application/pdf", Size: 10, Data: []byte("0123456789")},
		},
	})
	if err != nil {
		t.Fatalf("AttachDocuments: %v", err)
	}

	if len(res.DocumentKeys) != 1 || res.DocumentKeys[0] != "T1/spec.pdf" {
		t.Errorf("DocumentKeys = %v, want [T1/spec.pdf]", res.DocumentKeys)
	}

	// Существующие ключи сохраняются, новые дописываются.
	stored := tenderVectors.documentKeys["T1"]
	if len(stored) != 2 || stored[0] != "T1/old.pdf" || stored[1] != "T1/spec.pdf" {
		t.Errorf("stored keys = %v, want old + new", stored)
	}

	if len(docsInfra.cleanedUp) != 0 {
		t.Errorf("no cleanup expected on success, got %v", docsInfra.cleanedUp)
	}
}

func TestAttachDocumentsEmpty(t *testing.T) {
	uc, _, _, _ := newTenderFixture(nil)

	_, err := uc.AttachDocuments(context.Background(), &AttachDocumentsReq{TenderID: "T1"})
	if !errors.Is(err, e.ErrNoDocuments) {
		t.Errorf("err = %v, want ErrNoDocuments", err)
	}
}

func TestAttachDocumentsUnknownTender(t *testing.T) {
	uc, _, _, docsInfra := newTenderFixture(nil)

	_, err := uc.AttachDocuments(context.Background(), &AttachDocumentsReq{
		TenderID:  "MISSING",
		Documents: []TenderDocument{{Name: "spec.pdf"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown tender")
	}

	if len(docsInfra.uploaded) != 0 {
		t.Errorf("nothing must be uploaded for unknown tender, got %v", docsInfra.uploaded)
	}
}
