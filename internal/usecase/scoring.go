package usecase

import (
	"context"
	"strings"

	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/vec"
)

const (
	// Порог семантического совпадения продуктов для множителя оценки.
	// Порог генерации объяснений настраивается отдельно (см. reasons.go).
	productScoreSimilarity = 0.60

	// Максимум продуктов поставщика, участвующих в сравнении.
	maxVendorProducts = 20

	// Минимальная длина осмысленного названия продукта.
	minProductLen = 3
)

// calculateMatchScore возвращает композитную оценку: базовая косинусная близость,
// умноженная на независимые бизнес-множители, с отсечкой сверху на 1.0.
func (m *MatchingUseCase) calculateMatchScore(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor, baseScore float64) float64 {
	score := baseScore

	multipliers := []float64{
		m.productMultiplier(ctx, tender, vendor),
		certMultiplier(tender, vendor),
		categoryMultiplier(tender, vendor),
		geoMultiplier(tender, vendor),
		businessMultiplier(vendor),
	}

	for _, mult := range multipliers {
		score *= mult
	}

	if score > 1.0 {
		return 1.0
	}

	return score
}

// productMultiplier: 0.85 (штраф) .. 1.30 (бонус).
// Совпадением продукта считается взаимное вхождение подстрок без учета регистра
// либо косинусная близость батчевых эмбеддингов не ниже productScoreSimilarity.
// Ошибка векторизации понижает множитель до нейтрального 1.0, не прерывая подбор.
func (m *MatchingUseCase) productMultiplier(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor) float64 {
	tenderProducts := filterProducts(tender.Products, len(tender.Products))
	if len(tender.Products) == 0 {
		return 1.0
	}

	if len(vendor.Products) == 0 {
		return 0.85
	}

	vendorProducts := filterProducts(vendor.Products, maxVendorProducts)
	if len(tenderProducts) == 0 || len(vendorProducts) == 0 {
		return 0.85
	}

	tenderEmbs, err := m.embeddings.GetBatch(ctx, tenderProducts)
	if err != nil {
		m.logger.Warnf("product multiplier embedding failed: %v", err)
		return 1.0
	}

	vendorEmbs, err := m.embeddings.GetBatch(ctx, vendorProducts)
	if err != nil {
		m.logger.Warnf("product multiplier embedding failed: %v", err)
		return 1.0
	}

	matches := 0
	for i, tp := range tenderProducts {
		if productMatches(tp, tenderEmbs[i], vendorProducts, vendorEmbs) {
			matches++
		}
	}

	if matches == 0 {
		return 0.85
	}

	ratio := float64(matches) / float64(len(tenderProducts))
	switch {
	case ratio >= 0.9:
		return 1.30
	case ratio >= 0.7:
		return 1.20
	case ratio >= 0.5:
		return 1.10
	default:
		return 1.0 + 0.10*ratio
	}
}

// productMatches проверяет один требуемый продукт против всех продуктов поставщика.
func productMatches(tenderProduct string, tenderEmb []float32, vendorProducts []string, vendorEmbs [][]float32) bool {
	bestSimilarity := 0.0
	tpLower := strings.ToLower(tenderProduct)

	for j, vp := range vendorProducts {
		vpLower := strings.ToLower(vp)
		if strings.Contains(vpLower, tpLower) || strings.Contains(tpLower, vpLower) {
			return true
		}

		if s := vec.Cosine(tenderEmb, vendorEmbs[j]); s > bestSimilarity {
			bestSimilarity = s
		}
	}

	return bestSimilarity >= productScoreSimilarity
}

// certMultiplier: 1.0 без требований, 0.85 без пересечения, 1.25 при полном покрытии.
func certMultiplier(tender *domain.Tender, vendor *domain.Vendor) float64 {
	if len(tender.RequiredCertifications) == 0 {
		return 1.0
	}

	overlap := intersectCount(tender.RequiredCertifications, vendor.Certifications)
	if overlap == 0 {
		return 0.85
	}

	ratio := float64(overlap) / float64(len(tender.RequiredCertifications))
	if ratio == 1.0 {
		return 1.25
	}

	return 1.0 + 0.20*ratio
}

// categoryMultiplier: 1.0 .. 1.15; отсутствие пересечения не штрафуется.
func categoryMultiplier(tender *domain.Tender, vendor *domain.Vendor) float64 {
	if len(tender.Categories) == 0 || len(vendor.Categories) == 0 {
		return 1.0
	}

	overlap := intersectCount(tender.Categories, vendor.Categories)
	if overlap == 0 {
		return 1.0
	}

	ratio := float64(overlap) / float64(len(tender.Categories))
	return 1.0 + 0.15*ratio
}

// geoMultiplier: 0.80 (штраф) .. 1.10 (бонус); pan_india дает плоский 1.05.
func geoMultiplier(tender *domain.Tender, vendor *domain.Vendor) float64 {
	if tender.StatePreference == domain.StatePrefPanIndia {
		return 1.05
	}

	if len(tender.States) == 0 || len(vendor.States) == 0 {
		return 1.0
	}

	overlap := intersectCount(tender.States, vendor.States)
	if overlap == 0 {
		return 0.80
	}

	ratio := float64(overlap) / float64(len(tender.States))
	return 1.0 + 0.10*ratio
}

// businessMultiplier: производители получают 1.10, поставщики и дистрибьюторы 1.05.
func businessMultiplier(vendor *domain.Vendor) float64 {
	bt := strings.ToLower(vendor.BusinessType)

	switch {
	case strings.Contains(bt, "manufacturer") || strings.Contains(bt, "producer"):
		return 1.10
	case strings.Contains(bt, "supplier") || strings.Contains(bt, "distributor"):
		return 1.05
	default:
		return 1.0
	}
}

// filterProducts отбрасывает пустые и слишком короткие названия, ограничивая список.
func filterProducts(products []string, limit int) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		if len(out) >= limit {
			break
		}
		if len(strings.TrimSpace(p)) >= minProductLen {
			out = append(out, p)
		}
	}

	return out
}

// intersectCount возвращает размер пересечения двух списков без учета порядка.
func intersectCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}

	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, y := range b {
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		if _, ok := set[y]; ok {
			count++
		}
	}

	return count
}
