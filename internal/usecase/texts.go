package usecase

import (
	"fmt"
	"strings"

	"github.com/tendermesh/matching-backend/internal/domain"
)

// vendorText собирает описательный текст профиля поставщика для векторизации.
// Любое изменение состава полей требует новой версии кэша эмбеддингов.
func vendorText(v *domain.Vendor) string {
	parts := []string{
		fmt.Sprintf("Company: %s", v.CompanyName),
		fmt.Sprintf("Description: %s", v.Description),
		fmt.Sprintf("Industries: %s", strings.Join(v.Industries, ", ")),
		fmt.Sprintf("Categories: %s", strings.Join(v.Categories, ", ")),
		fmt.Sprintf("Products: %s", strings.Join(v.Products, ", ")),
		fmt.Sprintf("Business Type: %s", v.BusinessType),
		fmt.Sprintf("Operating States: %s", strings.Join(v.States, ", ")),
		fmt.Sprintf("Certifications: %s", strings.Join(v.Certifications, ", ")),
	}

	if v.AnnualTurnover != "" {
		parts = append(parts, fmt.Sprintf("Turnover: %s", v.AnnualTurnover))
	}

	return strings.Join(parts, " | ")
}

// tenderText собирает описательный текст тендера для векторизации.
func tenderText(t *domain.Tender) string {
	parts := []string{
		fmt.Sprintf("Title: %s", t.Title),
		fmt.Sprintf("Description: %s", t.Description),
		fmt.Sprintf("Industry: %s", t.Industry),
		fmt.Sprintf("Categories: %s", strings.Join(t.Categories, ", ")),
	}

	if t.Subcategory != "" {
		parts = append(parts, fmt.Sprintf("Subcategory: %s", t.Subcategory))
	}

	if len(t.Products) > 0 {
		parts = append(parts, fmt.Sprintf("Required Products: %s", strings.Join(t.Products, ", ")))
	}

	if t.StatePreference == domain.StatePrefPanIndia {
		parts = append(parts, "Location: Pan India")
	} else if len(t.States) > 0 {
		parts = append(parts, fmt.Sprintf("States: %s", strings.Join(t.States, ", ")))
	}

	parts = append(parts, fmt.Sprintf("Required Certifications: %s", strings.Join(t.RequiredCertifications, ", ")))

	if t.RequiredTurnover != "" {
		parts = append(parts, fmt.Sprintf("Required Turnover: %s", t.RequiredTurnover))
	}

	return strings.Join(parts, " | ")
}
