package usecase

import (
	"strings"
	"testing"

	"github.com/tendermesh/matching-backend/internal/domain"
)

func TestVendorText(t *testing.T) {
	vendor := &domain.Vendor{
		CompanyName:    "Alpha Steel",
		Description:    "Steel products",
		Industries:     []string{"Steel", "Infrastructure"},
		Categories:     []string{"Pipes"},
		Products:       []string{"Steel Pipes"},
		BusinessType:   "Manufacturer",
		States:         []string{"Delhi"},
		Certifications: []string{"ISO 9001"},
		AnnualTurnover: "10-25 Crores",
	}

	got := vendorText(vendor)
	want := "Company: Alpha Steel | Description: Steel products | Industries: Steel, Infrastructure | " +
		"Categories: Pipes | Products: Steel Pipes | Business Type: Manufacturer | " +
		"Operating States: Delhi | Certifications: ISO 9001 | Turnover: 10-25 Crores"

	if got != want {
		t.Errorf("vendorText =\n%q\nwant\n%q", got, want)
	}
}

func TestVendorTextWithoutTurnover(t *testing.T) {
	got := vendorText(&domain.Vendor{CompanyName: "Alpha"})

	if strings.Contains(got, "Turnover:") {
		t.Errorf("vendorText without turnover must omit the Turnover part: %q", got)
	}
}

func TestTenderText(t *testing.T) {
	tender := &domain.Tender{
		Title:                  "Supply of steel pipes",
		Description:            "Seamless pipes",
		Industry:               "Infrastructure",
		Categories:             []string{"Pipes"},
		Subcategory:            "Seamless",
		Products:               []string{"Steel Pipes"},
		StatePreference:        domain.StatePrefSpecificStates,
		States:                 []string{"Delhi", "Goa"},
		RequiredCertifications: []string{"ISO 9001"},
		RequiredTurnover:       "10-25 Crores",
	}

	got := tenderText(tender)
	want := "Title: Supply of steel pipes | Description: Seamless pipes | Industry: Infrastructure | " +
		"Categories: Pipes | Subcategory: Seamless | Required Products: Steel Pipes | " +
		"States: Delhi, Goa | Required Certifications: ISO 9001 | Required Turnover: 10-25 Crores"

	if got != want {
		t.Errorf("tenderText =\n%q\nwant\n%q", got, want)
	}
}

func TestTenderTextPanIndia(t *testing.T) {
	tender := &domain.Tender{
		Title:           "Supply",
		StatePreference: domain.StatePrefPanIndia,
		States:          []string{"Delhi"},
	}

	got := tenderText(tender)
	if !strings.Contains(got, "Location: Pan India") {
		t.Errorf("tenderText must mark pan india coverage: %q", got)
	}
	if strings.Contains(got, "States: Delhi") {
		t.Errorf("pan india tender must not list states: %q", got)
	}
}
