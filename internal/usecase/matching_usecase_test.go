package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
)

func newMatchingFixture(hits []VendorHit) (*MatchingUseCase, *fakeMatchCache, *fakeIDRegistry, *fakeTenderVectors) {
	matchCache := &fakeMatchCache{stored: make(chan *MatchResponse, 1)}
	idRegistry := &fakeIDRegistry{}
	tenderVectors := &fakeTenderVectors{}

	uc := NewMatchingUC(
		&fakeEmbeddings{defaultVec: []float32{1, 0}},
		&fakeVendorVectors{hits: hits},
		tenderVectors,
		idRegistry,
		matchCache,
		nopLogger{},
		&cfg.MatchingCfg{
			SimilarityThreshold: 0.2,
			DefaultTopK:         5,
			FeedbackWeight:      0.1,
		},
	)

	return uc, matchCache, idRegistry, tenderVectors
}

func matchTender() domain.Tender {
	return domain.Tender{
		ID:              "TENDER-001",
		Title:           "Supply of steel pipes",
		Description:     "Seamless steel pipes for water infrastructure",
		Industry:        "Infrastructure",
		StatePreference: domain.StatePrefPanIndia,
	}
}

func TestFindMatchingVendorsRanking(t *testing.T) {
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1", CompanyName: "Alpha"}, Score: 0.5},
		{Vendor: domain.Vendor{ID: "V2", CompanyName: "Beta"}, Score: 0.9},
		{Vendor: domain.Vendor{ID: "V3", CompanyName: "Gamma"}, Score: 0.7},
	}

	uc, _, idRegistry, tenderVectors := newMatchingFixture(hits)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender()})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TenderID != "TENDER-001" {
		t.Errorf("TenderID = %q, want TENDER-001", res.TenderID)
	}
	if res.TotalMatches != 3 {
		t.Fatalf("TotalMatches = %d, want 3", res.TotalMatches)
	}

	// Все кандидаты получают одинаковые множители, порядок определяется базовой близостью.
	wantOrder := []string{"V2", "V3", "V1"}
	for i, want := range wantOrder {
		if res.Matches[i].VendorID != want {
			t.Errorf("position %d = %s, want %s", i, res.Matches[i].VendorID, want)
		}
		if res.Matches[i].Ranking != i+1 {
			t.Errorf("ranking at position %d = %d, want %d", i, res.Matches[i].Ranking, i+1)
		}
	}

	if len(idRegistry.registered) != 1 || idRegistry.registered[0] != "tender:TENDER-001" {
		t.Errorf("registered ids = %v, want [tender:TENDER-001]", idRegistry.registered)
	}
	if len(tenderVectors.upserted) != 1 || tenderVectors.upserted[0] != "TENDER-001" {
		t.Errorf("upserted tenders = %v, want [TENDER-001]", tenderVectors.upserted)
	}
}

func TestFindMatchingVendorsSimilarityThreshold(t *testing.T) {
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1"}, Score: 0.5},
		{Vendor: domain.Vendor{ID: "V2"}, Score: 0.1},
	}

	uc, _, _, _ := newMatchingFixture(hits)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender()})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TotalMatches != 1 || res.Matches[0].VendorID != "V1" {
		t.Errorf("matches = %+v, want only V1 above threshold", res.Matches)
	}
}

func TestFindMatchingVendorsTurnoverFilter(t *testing.T) {
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1", AnnualTurnover: "1-5 Crores"}, Score: 0.9},
		{Vendor: domain.Vendor{ID: "V2", AnnualTurnover: "25-50 Crores"}, Score: 0.5},
	}

	uc, _, _, _ := newMatchingFixture(hits)

	tender := matchTender()
	tender.RequiredTurnover = "10-25 Crores"

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: tender})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TotalMatches != 1 || res.Matches[0].VendorID != "V2" {
		t.Errorf("matches = %+v, want only V2 meeting turnover", res.Matches)
	}
}

func TestFindMatchingVendorsTopKLimit(t *testing.T) {
	hits := make([]VendorHit, 5)
	for i := range hits {
		hits[i] = VendorHit{
			Vendor: domain.Vendor{ID: string(rune('A' + i))},
			Score:  0.9 - float64(i)*0.1,
		}
	}

	uc, _, _, _ := newMatchingFixture(hits)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender(), TopK: 2})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TotalMatches != 2 {
		t.Errorf("TotalMatches = %d, want 2", res.TotalMatches)
	}
}

func TestFindMatchingVendorsSimilarityCut(t *testing.T) {
	// Кандидат за пределами среза top_k не вытесняет кандидатов внутри среза,
	// даже если множители дают ему больший композитный балл.
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1", CompanyName: "Alpha"}, Score: 0.50},
		{Vendor: domain.Vendor{ID: "V2", CompanyName: "Beta"}, Score: 0.49},
		{Vendor: domain.Vendor{ID: "V3", CompanyName: "Gamma", BusinessType: "Manufacturer"}, Score: 0.48},
	}

	uc, _, _, _ := newMatchingFixture(hits)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender(), TopK: 2})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TotalMatches != 2 {
		t.Fatalf("TotalMatches = %d, want 2", res.TotalMatches)
	}
	wantOrder := []string{"V1", "V2"}
	for i, want := range wantOrder {
		if res.Matches[i].VendorID != want {
			t.Errorf("position %d = %s, want %s", i, res.Matches[i].VendorID, want)
		}
	}
}

func TestFindMatchingVendorsInvalidTopK(t *testing.T) {
	uc, _, _, _ := newMatchingFixture(nil)

	for _, topK := range []int{-1, 21, 100} {
		_, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender(), TopK: topK})
		if !errors.Is(err, e.ErrInvalidTopK) {
			t.Errorf("topK %d: err = %v, want ErrInvalidTopK", topK, err)
		}
	}
}

func TestFindMatchingVendorsCacheHit(t *testing.T) {
	uc, matchCache, idRegistry, _ := newMatchingFixture(nil)

	cached := NewMatchResponse("TENDER-001", []MatchResult{{VendorID: "V9"}}, 1.0)
	matchCache.cached = cached

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender()})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res != cached {
		t.Errorf("expected cached response to be returned as-is")
	}
	if len(idRegistry.registered) != 0 {
		t.Errorf("cache hit must not touch the id registry, got %v", idRegistry.registered)
	}
}

func TestFindMatchingVendorsCachesResponse(t *testing.T) {
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1"}, Score: 0.5},
	}

	uc, matchCache, _, _ := newMatchingFixture(hits)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender()})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	select {
	case stored := <-matchCache.stored:
		if stored != res {
			t.Errorf("cached response differs from returned one")
		}
	case <-time.After(time.Second):
		t.Fatal("response was not cached in the background")
	}
}

func TestFindMatchingVendorsGeoHardFilter(t *testing.T) {
	hits := []VendorHit{
		{Vendor: domain.Vendor{ID: "V1", States: []string{"Goa"}}, Score: 0.9},
		{Vendor: domain.Vendor{ID: "V2", States: []string{"Delhi"}}, Score: 0.5},
		{Vendor: domain.Vendor{ID: "V3"}, Score: 0.4},
	}

	uc, _, _, _ := newMatchingFixture(hits)
	uc.cfg.GeoHardFilter = true

	tender := matchTender()
	tender.StatePreference = domain.StatePrefSpecificStates
	tender.States = []string{"Delhi"}

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: tender})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	// V1 не работает в требуемых штатах, V3 без географии проходит как общенациональный.
	if res.TotalMatches != 2 {
		t.Fatalf("TotalMatches = %d, want 2", res.TotalMatches)
	}
	for _, m := range res.Matches {
		if m.VendorID == "V1" {
			t.Errorf("V1 must be filtered out by the geo hard filter")
		}
	}
}

func TestFindMatchingVendorsEmptyResult(t *testing.T) {
	uc, _, _, _ := newMatchingFixture(nil)

	res, err := uc.FindMatchingVendors(context.Background(), &MatchReq{Tender: matchTender()})
	if err != nil {
		t.Fatalf("FindMatchingVendors: %v", err)
	}

	if res.TotalMatches != 0 || len(res.Matches) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
