package http

import (
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/internal/usecase"
)

// VendorModel — профиль поставщика в теле запроса.
type VendorModel struct {
	VendorID       string   `json:"vendor_id"`
	CompanyName    string   `json:"company_name"`
	Description    string   `json:"description"`
	Industries     []string `json:"industries"`
	Categories     []string `json:"categories"`
	Products       []string `json:"products"`
	BusinessType   string   `json:"business_type"`
	States         []string `json:"states"`
	AnnualTurnover string   `json:"annual_turnover"`
	Certifications []string `json:"certifications"`
}

func (m *VendorModel) toDomain() domain.Vendor {
	return domain.Vendor{
		ID:             m.VendorID,
		CompanyName:    m.CompanyName,
		Description:    m.Description,
		Industries:     m.Industries,
		Categories:     m.Categories,
		Products:       m.Products,
		BusinessType:   m.BusinessType,
		States:         m.States,
		AnnualTurnover: m.AnnualTurnover,
		Certifications: m.Certifications,
	}
}

func toVendorModel(v domain.Vendor) VendorModel {
	return VendorModel{
		VendorID:       v.ID,
		CompanyName:    v.CompanyName,
		Description:    v.Description,
		Industries:     v.Industries,
		Categories:     v.Categories,
		Products:       v.Products,
		BusinessType:   v.BusinessType,
		States:         v.States,
		AnnualTurnover: v.AnnualTurnover,
		Certifications: v.Certifications,
	}
}

// VendorUpdateModel — частичное обновление профиля. Отсутствующее поле не меняется.
type VendorUpdateModel struct {
	CompanyName    *string  `json:"company_name"`
	Description    *string  `json:"description"`
	Industries     []string `json:"industries"`
	Categories     []string `json:"categories"`
	Products       []string `json:"products"`
	BusinessType   *string  `json:"business_type"`
	States         []string `json:"states"`
	AnnualTurnover *string  `json:"annual_turnover"`
	Certifications []string `json:"certifications"`
}

func (m *VendorUpdateModel) toDomain() domain.VendorUpdate {
	return domain.VendorUpdate{
		CompanyName:    m.CompanyName,
		Description:    m.Description,
		Industries:     m.Industries,
		Categories:     m.Categories,
		Products:       m.Products,
		BusinessType:   m.BusinessType,
		States:         m.States,
		AnnualTurnover: m.AnnualTurnover,
		Certifications: m.Certifications,
	}
}

// SyncVendorsModel — батчевая синхронизация профилей.
type SyncVendorsModel struct {
	Vendors     []VendorModel `json:"vendors"`
	ForceUpdate bool          `json:"force_update"`
}

// TenderModel — тендер в теле запроса. Ориентировочная стоимость передается
// строкой и валидируется на стороне сервера.
type TenderModel struct {
	TenderID               string   `json:"tender_id"`
	TenderTitle            string   `json:"tender_title"`
	BriefDescription       string   `json:"brief_description"`
	Industry               string   `json:"industry"`
	Categories             []string `json:"categories"`
	Subcategory            string   `json:"subcategory"`
	Products               []string `json:"products"`
	StatePreference        string   `json:"state_preference"`
	States                 []string `json:"states"`
	RequiredAnnualTurnover string   `json:"required_annual_turnover"`
	RequiredCertifications []string `json:"required_certifications"`
	EstimatedValue         string   `json:"estimated_value"`
	BuyerID                string   `json:"buyer_id"`
	PostedDate             string   `json:"posted_date"`
	ExpiryDate             string   `json:"expiry_date"`
}

func (m *TenderModel) toDomain() (domain.Tender, error) {
	pref := m.StatePreference
	if pref == "" {
		pref = string(domain.StatePrefPanIndia)
	}

	tender := domain.Tender{
		ID:                     m.TenderID,
		Title:                  m.TenderTitle,
		Description:            m.BriefDescription,
		Industry:               m.Industry,
		Categories:             m.Categories,
		Subcategory:            m.Subcategory,
		Products:               m.Products,
		StatePreference:        domain.StatePreference(pref),
		States:                 m.States,
		RequiredTurnover:       m.RequiredAnnualTurnover,
		RequiredCertifications: m.RequiredCertifications,
		BuyerID:                m.BuyerID,
		PostedDate:             m.PostedDate,
		ExpiryDate:             m.ExpiryDate,
	}

	if m.EstimatedValue != "" {
		paise, err := parseValueToPaise(m.EstimatedValue)
		if err != nil {
			return domain.Tender{}, err
		}
		tender.EstimatedValue = &paise
	}

	return tender, nil
}

// MatchRequestModel — запрос на подбор поставщиков.
type MatchRequestModel struct {
	Tender TenderModel `json:"tender"`
	TopK   int         `json:"top_k"`
}

// MatchResponseModel — ответ подбора.
type MatchResponseModel struct {
	TenderID     string             `json:"tender_id"`
	TotalMatches int                `json:"total_matches"`
	Matches      []MatchResultModel `json:"matches"`
	SearchTimeMs float64            `json:"search_time_ms"`
}

type MatchResultModel struct {
	VendorID        string      `json:"vendor_id"`
	CompanyName     string      `json:"company_name"`
	MatchScore      float64     `json:"match_score"`
	MatchPercentage int         `json:"match_percentage"`
	MatchReasons    []string    `json:"match_reasons"`
	VendorDetails   VendorModel `json:"vendor_details"`
	Ranking         int         `json:"ranking"`
}

func toMatchResponseModel(res *usecase.MatchResponse) *MatchResponseModel {
	matches := make([]MatchResultModel, 0, len(res.Matches))
	for _, m := range res.Matches {
		matches = append(matches, MatchResultModel{
			VendorID:        m.VendorID,
			CompanyName:     m.CompanyName,
			MatchScore:      m.MatchScore,
			MatchPercentage: m.MatchPercentage,
			MatchReasons:    m.MatchReasons,
			VendorDetails: VendorModel{
				VendorID:       m.VendorID,
				CompanyName:    m.VendorDetails.CompanyName,
				Description:    m.VendorDetails.Description,
				Industries:     m.VendorDetails.Industries,
				Categories:     m.VendorDetails.Categories,
				Products:       m.VendorDetails.Products,
				BusinessType:   m.VendorDetails.BusinessType,
				States:         m.VendorDetails.States,
				AnnualTurnover: m.VendorDetails.AnnualTurnover,
				Certifications: m.VendorDetails.Certifications,
			},
			Ranking: m.Ranking,
		})
	}

	return &MatchResponseModel{
		TenderID:     res.TenderID,
		TotalMatches: res.TotalMatches,
		Matches:      matches,
		SearchTimeMs: res.SearchTimeMs,
	}
}

// FeedbackModel — сигнал об итоге сотрудничества по совпадению.
type FeedbackModel struct {
	TenderID     string `json:"tender_id"`
	VendorID     string `json:"vendor_id"`
	MatchSuccess bool   `json:"match_success"`
	Selected     bool   `json:"selected"`
	Rating       *int   `json:"rating"`
	Comments     string `json:"comments"`
}

// FeedbackResultModel — итог обработки обратной связи.
type FeedbackResultModel struct {
	Adjustment string  `json:"adjustment"`
	Reason     string  `json:"reason,omitempty"`
	VendorID   string  `json:"vendor_id"`
	TenderID   string  `json:"tender_id"`
	Weight     float64 `json:"weight,omitempty"`
	Timestamp  string  `json:"timestamp"`
}
