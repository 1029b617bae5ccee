// Package converter преобразует ответы подбора в Redis-модели и обратно.
package converter

import "github.com/tendermesh/matching-backend/internal/usecase"

func ToRedisModel(res *usecase.MatchResponse) *MatchResponseRedisModel {
	matches := make([]MatchResultRedisModel, 0, len(res.Matches))
	for _, m := range res.Matches {
		matches = append(matches, MatchResultRedisModel{
			VendorID:        m.VendorID,
			CompanyName:     m.CompanyName,
			MatchScore:      m.MatchScore,
			MatchPercentage: m.MatchPercentage,
			MatchReasons:    m.MatchReasons,
			VendorDetails:   toDetailsRedisModel(m.VendorDetails),
			Ranking:         m.Ranking,
		})
	}

	return &MatchResponseRedisModel{
		TenderID:     res.TenderID,
		TotalMatches: res.TotalMatches,
		Matches:      matches,
		SearchTimeMs: res.SearchTimeMs,
	}
}

func ToUseCase(model *MatchResponseRedisModel) *usecase.MatchResponse {
	matches := make([]usecase.MatchResult, 0, len(model.Matches))
	for _, m := range model.Matches {
		matches = append(matches, usecase.MatchResult{
			VendorID:        m.VendorID,
			CompanyName:     m.CompanyName,
			MatchScore:      m.MatchScore,
			MatchPercentage: m.MatchPercentage,
			MatchReasons:    m.MatchReasons,
			VendorDetails:   toDetailsUseCase(m.VendorDetails),
			Ranking:         m.Ranking,
		})
	}

	return &usecase.MatchResponse{
		TenderID:     model.TenderID,
		TotalMatches: model.TotalMatches,
		Matches:      matches,
		SearchTimeMs: model.SearchTimeMs,
	}
}

func toDetailsRedisModel(d usecase.VendorDetails) VendorDetailsRedisModel {
	return VendorDetailsRedisModel{
		CompanyName:    d.CompanyName,
		Industries:     d.Industries,
		Categories:     d.Categories,
		States:         d.States,
		BusinessType:   d.BusinessType,
		AnnualTurnover: d.AnnualTurnover,
		Certifications: d.Certifications,
		Products:       d.Products,
		Description:    d.Description,
	}
}

func toDetailsUseCase(d VendorDetailsRedisModel) usecase.VendorDetails {
	return usecase.VendorDetails{
		CompanyName:    d.CompanyName,
		Industries:     d.Industries,
		Categories:     d.Categories,
		States:         d.States,
		BusinessType:   d.BusinessType,
		AnnualTurnover: d.AnnualTurnover,
		Certifications: d.Certifications,
		Products:       d.Products,
		Description:    d.Description,
	}
}
