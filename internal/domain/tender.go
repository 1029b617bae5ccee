package domain

// StatePreference описывает географический охват тендера.
type StatePreference string

const (
	StatePrefPanIndia       StatePreference = "pan_india"
	StatePrefSpecificStates StatePreference = "specific_states"
)

// Valid сообщает, что значение входит в число допустимых вариантов.
func (s StatePreference) Valid() bool {
	return s == StatePrefPanIndia || s == StatePrefSpecificStates
}

// Tender описывает тендер закупки.
type Tender struct {
	ID                     string
	Title                  string
	Description            string
	Industry               string
	Categories             []string
	Subcategory            string
	Products               []string
	StatePreference        StatePreference
	States                 []string
	RequiredTurnover       string
	RequiredCertifications []string
	// EstimatedValue — ориентировочная стоимость в пайсах, если указана.
	EstimatedValue *int64
	BuyerID        string
	PostedDate     string
	ExpiryDate     string
	// DocumentKeys — ключи сопроводительных документов в объектном хранилище.
	DocumentKeys []string
}
