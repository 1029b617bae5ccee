package domain

// Vendor описывает поставщика и его профиль возможностей.
// Профиль целиком хранится в payload векторной точки поставщика.
type Vendor struct {
	ID             string
	CompanyName    string
	Description    string
	Industries     []string
	Categories     []string
	Products       []string
	BusinessType   string
	States         []string
	AnnualTurnover string
	Certifications []string
}

// VendorUpdate описывает частичное обновление профиля поставщика.
// nil-поле означает «не менять».
type VendorUpdate struct {
	CompanyName    *string
	Description    *string
	Industries     []string
	Categories     []string
	Products       []string
	BusinessType   *string
	States         []string
	AnnualTurnover *string
	Certifications []string
}

// IsEmpty сообщает, что обновление не затрагивает ни одного поля.
func (u *VendorUpdate) IsEmpty() bool {
	return u.CompanyName == nil &&
		u.Description == nil &&
		u.Industries == nil &&
		u.Categories == nil &&
		u.Products == nil &&
		u.BusinessType == nil &&
		u.States == nil &&
		u.AnnualTurnover == nil &&
		u.Certifications == nil
}

// Fields перечисляет имена затронутых обновлением полей.
func (u *VendorUpdate) Fields() []string {
	var fields []string

	if u.CompanyName != nil {
		fields = append(fields, "company_name")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Industries != nil {
		fields = append(fields, "industries")
	}
	if u.Categories != nil {
		fields = append(fields, "categories")
	}
	if u.Products != nil {
		fields = append(fields, "products")
	}
	if u.BusinessType != nil {
		fields = append(fields, "business_type")
	}
	if u.States != nil {
		fields = append(fields, "states")
	}
	if u.AnnualTurnover != nil {
		fields = append(fields, "annual_turnover")
	}
	if u.Certifications != nil {
		fields = append(fields, "certifications")
	}

	return fields
}

// Apply возвращает копию поставщика с наложенными непустыми полями обновления.
// Любое изменение профиля требует перегенерации эмбеддинга вызывающей стороной.
func (u *VendorUpdate) Apply(v Vendor) Vendor {
	if u.CompanyName != nil {
		v.CompanyName = *u.CompanyName
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.Industries != nil {
		v.Industries = u.Industries
	}
	if u.Categories != nil {
		v.Categories = u.Categories
	}
	if u.Products != nil {
		v.Products = u.Products
	}
	if u.BusinessType != nil {
		v.BusinessType = *u.BusinessType
	}
	if u.States != nil {
		v.States = u.States
	}
	if u.AnnualTurnover != nil {
		v.AnnualTurnover = *u.AnnualTurnover
	}
	if u.Certifications != nil {
		v.Certifications = u.Certifications
	}

	return v
}
