package domain

// PurchaseDetails summarizes a completed purchase. It is derived at
// operation time and never persisted.
type PurchaseDetails struct {
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// RestockDetails summarizes a completed restock.
type RestockDetails struct {
	Quantity      int `json:"quantity"`
	PreviousStock int `json:"previousStock"`
	NewStock      int `json:"newStock"`
}
