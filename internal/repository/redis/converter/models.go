package converter

// MatchResponseRedisModel — сериализуемый ответ подбора для кэша.
type MatchResponseRedisModel struct {
	TenderID     string                  `json:"tender_id"`
	TotalMatches int                     `json:"total_matches"`
	Matches      []MatchResultRedisModel `json:"matches"`
	SearchTimeMs float64                 `json:"search_time_ms"`
}

type MatchResultRedisModel struct {
	VendorID        string                 `json:"vendor_id"`
	CompanyName     string                 `json:"company_name"`
	MatchScore      float64                `json:"match_score"`
	MatchPercentage int                    `json:"match_percentage"`
	MatchReasons    []string               `json:"match_reasons"`
	VendorDetails   VendorDetailsRedisModel `json:"vendor_details"`
	Ranking         int                    `json:"ranking"`
}

type VendorDetailsRedisModel struct {
	CompanyName    string   `json:"company_name"`
	Industries     []string `json:"industries"`
	Categories     []string `json:"categories"`
	States         []string `json:"states"`
	BusinessType   string   `json:"business_type"`
	AnnualTurnover string   `json:"annual_turnover"`
	Certifications []string `json:"certifications"`
	Products       []string `json:"products"`
	Description    string   `json:"description"`
}
