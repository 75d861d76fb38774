package models

import "time"

// TokenHolding representa a posição fracionada de um usuário em um imóvel.
// CurrentValue e MonthlyRentShare são informados pela origem dos dados e não
// são recalculados a partir de Property.
type TokenHolding struct {
	ID               string    `json:"id" yaml:"id"`
	PropertyID       string    `json:"property_id" yaml:"property_id"`
	Property         Property  `json:"property" yaml:"property"`
	UserID           string    `json:"user_id" yaml:"user_id"`
	TokenAmount      int64     `json:"token_amount" yaml:"token_amount"`
	PurchasePrice    float64   `json:"purchase_price" yaml:"purchase_price"`
	CurrentValue     float64   `json:"current_value" yaml:"current_value"`
	MonthlyRentShare float64   `json:"monthly_rent_share" yaml:"monthly_rent_share"`
	PurchaseDate     time.Time `json:"purchase_date" yaml:"purchase_date"`
	Partition        string    `json:"partition" yaml:"partition"`
}

// RentPayment é o registro imutável de uma distribuição de aluguel.
type RentPayment struct {
	ID              string    `json:"id" yaml:"id"`
	PropertyID      string    `json:"property_id" yaml:"property_id"`
	UserID          string    `json:"user_id" yaml:"user_id"`
	Amount          float64   `json:"amount" yaml:"amount"`
	Period          string    `json:"period" yaml:"period"` // "2024-03"
	PaidAt          time.Time `json:"paid_at" yaml:"paid_at"`
	TransactionHash string    `json:"transaction_hash" yaml:"transaction_hash"`
}
