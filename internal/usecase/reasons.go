package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/vec"
)

// Пороги семантических сравнений при генерации объяснений.
// Настроены независимо от порогов скоринга: объяснения описывают совпадение,
// а не участвуют в оценке, поэтому наборы порогов не объединяются.
const (
	reasonProductExplicitSim = 0.55
	reasonProductImplicitSim = 0.60
	reasonIndustrySim        = 0.70
	reasonExpertiseRelSim    = 0.65
	reasonExpertiseStrongSim = 0.75

	maxReasons = 6
)

var yearsPattern = regexp.MustCompile(`(\d{4})|(\d+)\s*years`)

// generateMatchReasons строит до шести объяснений совпадения в порядке приоритета:
// сертификации, продукты, категории, отрасль, география, деловой потенциал, экспертиза.
// Семантические пути при ошибке независимо откатываются на эвристику по ключевым словам.
func (m *MatchingUseCase) generateMatchReasons(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor) []string {
	var reasons []string

	if r := certificationReason(tender, vendor); r != "" {
		reasons = append(reasons, r)
	}

	productReasons, err := m.productReasonsSemantic(ctx, tender, vendor)
	if err != nil {
		m.logger.Warnf("semantic product matching failed: %v, falling back to keywords", err)
		productReasons = productReasonsFallback(tender, vendor)
	}
	reasons = append(reasons, productReasons...)

	if r := categoryReason(tender, vendor); r != "" {
		reasons = append(reasons, r)
	}

	industryReason, err := m.industryReasonSemantic(ctx, tender, vendor)
	if err != nil {
		m.logger.Warnf("semantic industry matching failed: %v", err)
		industryReason = industryReasonFallback(tender, vendor)
	}
	if industryReason != "" {
		reasons = append(reasons, industryReason)
	}

	if r := geographicReason(tender, vendor); r != "" {
		reasons = append(reasons, r)
	}

	reasons = append(reasons, capacityReasons(tender, vendor)...)

	expertiseReason, err := m.expertiseReasonSemantic(ctx, tender, vendor)
	if err != nil {
		m.logger.Warnf("semantic expertise matching failed: %v", err)
		expertiseReason = expertiseReasonFallback(tender, vendor)
	}
	if expertiseReason != "" {
		reasons = append(reasons, expertiseReason)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Relevant business profile for this requirement")
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return reasons
}

// certificationReason описывает пересечение сертификаций.
func certificationReason(tender *domain.Tender, vendor *domain.Vendor) string {
	if len(tender.RequiredCertifications) == 0 {
		return ""
	}

	matching := intersectSorted(tender.RequiredCertifications, vendor.Certifications)
	if len(matching) == 0 {
		return ""
	}

	if len(matching) == len(tender.RequiredCertifications) {
		return fmt.Sprintf("Fully certified: %s", strings.Join(matching, ", "))
	}

	return fmt.Sprintf("Has certifications: %s", strings.Join(matching, ", "))
}

type scoredProduct struct {
	name  string
	score float64
}

// productReasonsSemantic сравнивает продукты поставщика с требуемыми продуктами
// и текстом тендера; все списки векторизуются батчами через кэш.
func (m *MatchingUseCase) productReasonsSemantic(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor) ([]string, error) {
	vendorProducts := filterProducts(vendor.Products, maxVendorProducts)
	if len(vendorProducts) == 0 {
		return nil, nil
	}

	tenderProducts := filterProducts(tender.Products, len(tender.Products))
	tenderText := strings.TrimSpace(tender.Title) + ". " + strings.TrimSpace(tender.Description)

	if len(tenderProducts) == 0 && len(tenderText) < 10 {
		return nil, nil
	}

	vendorEmbs, err := m.embeddings.GetBatch(ctx, vendorProducts)
	if err != nil {
		return nil, err
	}

	var explicit, implicit []scoredProduct

	if len(tenderProducts) > 0 {
		tenderEmbs, err := m.embeddings.GetBatch(ctx, tenderProducts)
		if err != nil {
			return nil, err
		}

		for i, vp := range vendorProducts {
			vpLower := strings.ToLower(strings.TrimSpace(vp))
			best := 0.0
			exact := false

			for j, tp := range tenderProducts {
				tpLower := strings.ToLower(strings.TrimSpace(tp))
				if vpLower == tpLower || strings.Contains(tpLower, vpLower) || strings.Contains(vpLower, tpLower) {
					explicit = append(explicit, scoredProduct{name: vp, score: 1.0})
					exact = true
					break
				}

				if s := vec.Cosine(vendorEmbs[i], tenderEmbs[j]); s > best {
					best = s
				}
			}

			if !exact && best >= reasonProductExplicitSim {
				explicit = append(explicit, scoredProduct{name: vp, score: best})
			}
		}
	}

	// Сопоставление с текстом тендера используется, только если явных совпадений нет.
	if len(explicit) == 0 && len(tenderText) >= 10 {
		textEmb, err := m.embeddings.Get(ctx, tenderText)
		if err != nil {
			return nil, err
		}

		for i, vp := range vendorProducts {
			if s := vec.Cosine(vendorEmbs[i], textEmb); s >= reasonProductImplicitSim {
				implicit = append(implicit, scoredProduct{name: vp, score: s})
			}
		}
	}

	sortByScoreDesc(explicit)
	sortByScoreDesc(implicit)

	if len(explicit) > 0 {
		return []string{explicitProductReason(explicit)}, nil
	}
	if len(implicit) > 0 {
		return []string{implicitProductReason(implicit)}, nil
	}

	return nil, nil
}

func explicitProductReason(matches []scoredProduct) string {
	switch len(matches) {
	case 1:
		return fmt.Sprintf("Supplies required product/service: %s", matches[0].name)
	case 2:
		return fmt.Sprintf("Supplies %s and %s", matches[0].name, matches[1].name)
	default:
		return fmt.Sprintf("Supplies %s, %s, and %d more required products",
			matches[0].name, matches[1].name, len(matches)-2)
	}
}

func implicitProductReason(matches []scoredProduct) string {
	switch len(matches) {
	case 1:
		return fmt.Sprintf("Supplies %s", matches[0].name)
	case 2:
		return fmt.Sprintf("Supplies %s and %s", matches[0].name, matches[1].name)
	default:
		return fmt.Sprintf("Supplies %s, %s, and %d more relevant products",
			matches[0].name, matches[1].name, len(matches)-2)
	}
}

// productReasonsFallback — эвристика по ключевым словам на случай отказа векторизации.
func productReasonsFallback(tender *domain.Tender, vendor *domain.Vendor) []string {
	if len(vendor.Products) == 0 {
		return nil
	}

	tenderCombined := strings.ToLower(strings.TrimSpace(tender.Title + " " + tender.Description))
	tenderKeywords := extractKeywords(tenderCombined)

	var explicit, implicit []scoredProduct

	for _, vp := range vendor.Products {
		if vp == "" {
			continue
		}

		vpLower := strings.ToLower(vp)
		matched := false

		for _, tp := range tender.Products {
			if tp == "" {
				continue
			}

			tpLower := strings.ToLower(tp)
			if strings.Contains(vpLower, tpLower) || strings.Contains(tpLower, vpLower) {
				explicit = append(explicit, scoredProduct{name: vp, score: 4})
				matched = true
				break
			}

			overlap := keywordOverlap(wordSet(vpLower), wordSet(tpLower))
			if overlap >= 2 {
				explicit = append(explicit, scoredProduct{name: vp, score: 3})
				matched = true
				break
			} else if overlap > 0 {
				explicit = append(explicit, scoredProduct{name: vp, score: 2})
				matched = true
				break
			}
		}

		if matched {
			continue
		}

		if tenderCombined != "" && strings.Contains(tenderCombined, vpLower) {
			implicit = append(implicit, scoredProduct{name: vp, score: 3})
			continue
		}

		overlap := keywordOverlap(wordSet(vpLower), tenderKeywords)
		if overlap >= 2 {
			implicit = append(implicit, scoredProduct{name: vp, score: 2})
		} else if overlap > 0 {
			implicit = append(implicit, scoredProduct{name: vp, score: 1})
		}
	}

	sortByScoreDesc(explicit)
	sortByScoreDesc(implicit)

	if len(explicit) > 0 {
		return []string{explicitProductReason(explicit)}
	}
	if len(implicit) > 0 {
		return []string{implicitProductReason(implicit)}
	}

	return nil
}

// categoryReason описывает пересечение категорий.
func categoryReason(tender *domain.Tender, vendor *domain.Vendor) string {
	matching := intersectSorted(tender.Categories, vendor.Categories)
	if len(matching) == 0 {
		return ""
	}

	switch {
	case len(matching) == len(tender.Categories) && len(tender.Categories) > 0:
		top := matching
		if len(top) > 2 {
			top = top[:2]
		}
		return fmt.Sprintf("Exact category match: %s", strings.Join(top, ", "))
	case len(matching) >= 2:
		return fmt.Sprintf("Operates in %d relevant categories", len(matching))
	default:
		return fmt.Sprintf("Specializes in %s", matching[0])
	}
}

// industryReasonSemantic сравнивает отрасль тендера с отраслями поставщика.
func (m *MatchingUseCase) industryReasonSemantic(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor) (string, error) {
	tenderIndustry := strings.TrimSpace(tender.Industry)

	vendorIndustries := make([]string, 0, len(vendor.Industries))
	for _, vi := range vendor.Industries {
		if s := strings.TrimSpace(vi); s != "" {
			vendorIndustries = append(vendorIndustries, s)
		}
	}

	if tenderIndustry == "" || len(vendorIndustries) == 0 {
		return "", nil
	}

	// Единственное общее слово вроде "manufacturing" не дает сигнала для сравнения.
	tenderWords := strings.Fields(strings.ToLower(tenderIndustry))
	if len(tenderWords) == 1 {
		if _, generic := genericIndustryTerms[tenderWords[0]]; generic {
			return multiIndustryReason(vendorIndustries), nil
		}
	}

	tenderEmb, err := m.embeddings.Get(ctx, tenderIndustry)
	if err != nil {
		return "", err
	}

	vendorEmbs, err := m.embeddings.GetBatch(ctx, vendorIndustries)
	if err != nil {
		return "", err
	}

	bestMatch := ""
	bestScore := reasonIndustrySim

	for i, vi := range vendorIndustries {
		if strings.EqualFold(tenderIndustry, vi) {
			return fmt.Sprintf("Experienced in %s industry", vi), nil
		}

		if s := vec.Cosine(tenderEmb, vendorEmbs[i]); s > bestScore {
			bestScore = s
			bestMatch = vi
		}
	}

	if bestMatch != "" {
		return fmt.Sprintf("Experienced in %s industry", bestMatch), nil
	}

	return multiIndustryReason(vendorIndustries), nil
}

func industryReasonFallback(tender *domain.Tender, vendor *domain.Vendor) string {
	tenderIndustry := strings.ToLower(strings.TrimSpace(tender.Industry))
	if tenderIndustry == "" || len(vendor.Industries) == 0 {
		return ""
	}

	tenderKeywords := extractIndustryKeywords(tenderIndustry)
	if len(tenderKeywords) == 0 {
		return multiIndustryReason(vendor.Industries)
	}

	for _, vi := range vendor.Industries {
		if vi == "" {
			continue
		}

		if keywordOverlap(tenderKeywords, extractIndustryKeywords(vi)) >= 2 {
			return fmt.Sprintf("Experienced in %s industry", vi)
		}
	}

	return multiIndustryReason(vendor.Industries)
}

func multiIndustryReason(industries []string) string {
	if len(industries) >= 5 {
		return fmt.Sprintf("Multi-industry supplier serving %d sectors", len(industries))
	}

	return ""
}

// geographicReason описывает географическое покрытие.
func geographicReason(tender *domain.Tender, vendor *domain.Vendor) string {
	if tender.StatePreference == domain.StatePrefPanIndia {
		return "Available for Pan India supply"
	}

	if len(vendor.States) == 0 {
		if len(tender.States) > 0 {
			return "Can supply to all required locations"
		}
		return "Pan India operations"
	}

	matching := intersectSorted(tender.States, vendor.States)
	if len(matching) == 0 {
		return ""
	}

	if len(matching) == len(tender.States) {
		if len(matching) == 1 {
			return fmt.Sprintf("Work in %s", matching[0])
		}
		return fmt.Sprintf("Operates in all %d required states", len(matching))
	}

	shown := matching
	if len(shown) > 2 {
		shown = shown[:2]
	}
	suffix := ""
	if remaining := len(matching) - 2; remaining > 0 {
		suffix = fmt.Sprintf(" + %d more", remaining)
	}

	return fmt.Sprintf("Presence in %s%s", strings.Join(shown, ", "), suffix)
}

// capacityReasons описывает тип бизнеса и финансовый потенциал поставщика.
func capacityReasons(tender *domain.Tender, vendor *domain.Vendor) []string {
	var reasons []string

	if vendor.BusinessType != "" {
		bt := strings.ToLower(vendor.BusinessType)
		if strings.Contains(bt, "manufacturer") || strings.Contains(bt, "producer") {
			reasons = append(reasons, "Direct manufacturer (no intermediaries)")
		} else if strings.Contains(bt, "supplier") || strings.Contains(bt, "distributor") {
			reasons = append(reasons, fmt.Sprintf("Established %s", vendor.BusinessType))
		}
	}

	switch {
	case vendor.AnnualTurnover != "" && tender.RequiredTurnover != "":
		if !domain.MeetsTurnover(tender.RequiredTurnover, vendor.AnnualTurnover) {
			break
		}

		reqIdx := domain.TurnoverIndex(tender.RequiredTurnover)
		vendorIdx := domain.TurnoverIndex(vendor.AnnualTurnover)
		if reqIdx < 0 || vendorIdx < 0 {
			break
		}

		if vendorIdx > reqIdx+1 {
			reasons = append(reasons, fmt.Sprintf("Strong financial capacity (%s)", vendor.AnnualTurnover))
		} else if vendorIdx == reqIdx {
			reasons = append(reasons, fmt.Sprintf("Meets turnover requirement (%s)", vendor.AnnualTurnover))
		}
	case vendor.AnnualTurnover != "":
		reasons = append(reasons, fmt.Sprintf("Annual turnover: %s", vendor.AnnualTurnover))
	}

	return reasons
}

// expertiseReasonSemantic сравнивает описание поставщика с текстом тендера.
func (m *MatchingUseCase) expertiseReasonSemantic(ctx context.Context, tender *domain.Tender, vendor *domain.Vendor) (string, error) {
	vendorDesc := strings.TrimSpace(vendor.Description)
	if len(vendorDesc) < 50 {
		return "", nil
	}

	tenderText := strings.TrimSpace(tender.Title) + ". " + strings.TrimSpace(tender.Description)
	if len(tenderText) < 10 {
		return "", nil
	}

	tenderEmb, err := m.embeddings.Get(ctx, tenderText)
	if err != nil {
		return "", err
	}

	if len(vendorDesc) > 500 {
		vendorDesc = vendorDesc[:500]
	}
	vendorEmb, err := m.embeddings.Get(ctx, vendorDesc)
	if err != nil {
		return "", err
	}

	similarity := vec.Cosine(tenderEmb, vendorEmb)
	if similarity >= reasonExpertiseStrongSim {
		return "Strong expertise alignment with tender requirements", nil
	}
	if similarity >= reasonExpertiseRelSim {
		return "Relevant experience for this requirement", nil
	}

	return trackRecordReason(vendor.Description), nil
}

func expertiseReasonFallback(tender *domain.Tender, vendor *domain.Vendor) string {
	vendorDesc := strings.ToLower(vendor.Description)
	if vendorDesc == "" {
		return ""
	}

	tenderKeywords := extractKeywords(strings.ToLower(tender.Title + " " + tender.Description))
	overlap := keywordOverlap(tenderKeywords, extractKeywords(vendorDesc))

	if overlap >= 5 {
		return "Strong expertise alignment with tender requirements"
	}
	if overlap >= 3 {
		return "Relevant experience for this requirement"
	}

	return trackRecordReason(vendor.Description)
}

// trackRecordReason — маркеры репутации в свободном описании поставщика.
func trackRecordReason(description string) string {
	desc := strings.ToLower(description)

	if strings.Contains(desc, "leading") || strings.Contains(desc, "leader") {
		return "Industry leader with proven track record"
	}

	if strings.Contains(desc, "established") && yearsPattern.MatchString(desc) {
		return "Established player with long-term experience"
	}

	return ""
}

// intersectSorted возвращает отсортированное пересечение двух списков.
func intersectSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, x := range b {
		set[x] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, x := range a {
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		if _, ok := set[x]; ok {
			out = append(out, x)
		}
	}

	sort.Strings(out)
	return out
}

func sortByScoreDesc(items []scoredProduct) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}

	return set
}
