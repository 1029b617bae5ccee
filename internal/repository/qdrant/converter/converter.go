// Package converter преобразует доменные сущности в payload точек Qdrant и обратно.
package converter

import (
	"github.com/qdrant/go-client/qdrant"
	"github.com/tendermesh/matching-backend/internal/domain"
)

// ToVendorPayload собирает payload точки поставщика.
func ToVendorPayload(v *domain.Vendor) map[string]any {
	return map[string]any{
		"original_id":     v.ID,
		"company_name":    v.CompanyName,
		"description":     v.Description,
		"industries":      toAnyList(v.Industries),
		"categories":      toAnyList(v.Categories),
		"products":        toAnyList(v.Products),
		"business_type":   v.BusinessType,
		"states":          toAnyList(v.States),
		"annual_turnover": v.AnnualTurnover,
		"certifications":  toAnyList(v.Certifications),
	}
}

// ToVendor восстанавливает поставщика из payload точки.
func ToVendor(pl map[string]*qdrant.Value) domain.Vendor {
	return domain.Vendor{
		ID:             stringField(pl, "original_id"),
		CompanyName:    stringField(pl, "company_name"),
		Description:    stringField(pl, "description"),
		Industries:     stringsField(pl, "industries"),
		Categories:     stringsField(pl, "categories"),
		Products:       stringsField(pl, "products"),
		BusinessType:   stringField(pl, "business_type"),
		States:         stringsField(pl, "states"),
		AnnualTurnover: stringField(pl, "annual_turnover"),
		Certifications: stringsField(pl, "certifications"),
	}
}

// ToTenderPayload собирает payload точки тендера.
func ToTenderPayload(t *domain.Tender) map[string]any {
	payload := map[string]any{
		"original_id":              t.ID,
		"tender_title":             t.Title,
		"brief_description":        t.Description,
		"industry":                 t.Industry,
		"categories":               toAnyList(t.Categories),
		"subcategory":              t.Subcategory,
		"products":                 toAnyList(t.Products),
		"state_preference":         string(t.StatePreference),
		"states":                   toAnyList(t.States),
		"required_annual_turnover": t.RequiredTurnover,
		"required_certifications":  toAnyList(t.RequiredCertifications),
		"buyer_id":                 t.BuyerID,
		"posted_date":              t.PostedDate,
		"expiry_date":              t.ExpiryDate,
		"document_keys":            toAnyList(t.DocumentKeys),
	}

	if t.EstimatedValue != nil {
		payload["estimated_value"] = *t.EstimatedValue
	}

	return payload
}

// ToTender восстанавливает тендер из payload точки.
func ToTender(pl map[string]*qdrant.Value) domain.Tender {
	return domain.Tender{
		ID:                     stringField(pl, "original_id"),
		Title:                  stringField(pl, "tender_title"),
		Description:            stringField(pl, "brief_description"),
		Industry:               stringField(pl, "industry"),
		Categories:             stringsField(pl, "categories"),
		Subcategory:            stringField(pl, "subcategory"),
		Products:               stringsField(pl, "products"),
		StatePreference:        domain.StatePreference(stringField(pl, "state_preference")),
		States:                 stringsField(pl, "states"),
		RequiredTurnover:       stringField(pl, "required_annual_turnover"),
		RequiredCertifications: stringsField(pl, "required_certifications"),
		EstimatedValue:         int64Field(pl, "estimated_value"),
		BuyerID:                stringField(pl, "buyer_id"),
		PostedDate:             stringField(pl, "posted_date"),
		ExpiryDate:             stringField(pl, "expiry_date"),
		DocumentKeys:           stringsField(pl, "document_keys"),
	}
}

// DocumentKeysPayload — частичный payload для обновления ключей документов.
func DocumentKeysPayload(keys []string) map[string]any {
	return map[string]any{
		"document_keys": toAnyList(keys),
	}
}

func toAnyList(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}

func stringField(pl map[string]*qdrant.Value, key string) string {
	value, ok := pl[key]
	if !ok {
		return ""
	}

	return value.GetStringValue()
}

func stringsField(pl map[string]*qdrant.Value, key string) []string {
	value, ok := pl[key]
	if !ok {
		return nil
	}

	list := value.GetListValue()
	if list == nil {
		return nil
	}

	out := make([]string, 0, len(list.Values))
	for _, item := range list.Values {
		out = append(out, item.GetStringValue())
	}

	return out
}

func int64Field(pl map[string]*qdrant.Value, key string) *int64 {
	value, ok := pl[key]
	if !ok {
		return nil
	}

	if _, isInt := value.GetKind().(*qdrant.Value_IntegerValue); !isInt {
		return nil
	}

	n := value.GetIntegerValue()

	return &n
}
