package models

// Reference entities owned by the external catalog service. Read-only
// here; fetched once per request, never cached.

const (
	AddressKindBilling  = "BILLING"
	AddressKindShipping = "SHIPPING"
)

type Customer struct {
	ID        string `json:"customerId"`
	LegalName string `json:"legalName"`
	TradeName string `json:"tradeName"`
	TaxID     string `json:"taxId"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Address struct {
	ID           string `json:"addressId"`
	CustomerID   string `json:"customerId"`
	Street       string `json:"street"`
	Locality     string `json:"locality"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Kind         string `json:"kind"`
}

type Product struct {
	ID            string  `json:"productId"`
	Name          string  `json:"name"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	BasePrice     float64 `json:"basePrice"`
}
