package entities

type PropertyStatus string

const (
	PropertyStatusActive      PropertyStatus = "active"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	PropertyStatusForeclosure PropertyStatus = "foreclosure"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusActive, PropertyStatusMaintenance, PropertyStatusForeclosure:
		return true
	default:
		return false
	}
}

// Property is the registry record for one tokenized property. The id is
// assigned once from a monotonic counter and never changes.
type Property struct {
	ID                uint64
	Address           string
	TotalValue        uint64
	TotalShares       uint64
	ShareLedgerLinked bool
	Manager           string
	CreationHeight    uint64
	Status            PropertyStatus
	MetadataURI       string
	LegalEntity       string
}
