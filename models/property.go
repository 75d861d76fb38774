package models

import "time"

// PropertyStatus é o estado de listagem de um imóvel no marketplace.
type PropertyStatus string

const (
	PropertyDraft    PropertyStatus = "draft"
	PropertyActive   PropertyStatus = "active"
	PropertySoldOut  PropertyStatus = "sold_out"
	PropertyPaused   PropertyStatus = "paused"
	PropertyArchived PropertyStatus = "archived"
)

// Valid informa se o status é conhecido.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyDraft, PropertyActive, PropertySoldOut, PropertyPaused, PropertyArchived:
		return true
	}
	return false
}

// RiskRating classifica o risco regulatório de um imóvel.
type RiskRating string

const (
	RiskLow    RiskRating = "low"
	RiskMedium RiskRating = "medium"
	RiskHigh   RiskRating = "high"
)

// Coordinates é a geolocalização do imóvel.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// PropertyPartition é uma classe de token com limites próprios de investimento.
type PropertyPartition struct {
	ID                    string   `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	MinInvestment         float64  `json:"min_investment" yaml:"min_investment"`
	MaxInvestment         float64  `json:"max_investment" yaml:"max_investment"`
	Restrictions          []string `json:"restrictions" yaml:"restrictions"`
	AccreditationRequired bool     `json:"accreditation_required" yaml:"accreditation_required"`
}

// ComplianceInfo agrupa regulações, restrições de transferência e avisos.
type ComplianceInfo struct {
	Regulations  []string   `json:"regulations" yaml:"regulations"`
	Restrictions []string   `json:"restrictions" yaml:"restrictions"`
	Disclosures  []string   `json:"disclosures" yaml:"disclosures"`
	RiskRating   RiskRating `json:"risk_rating" yaml:"risk_rating"`
}

// Property representa um imóvel tokenizado listado no marketplace.
type Property struct {
	ID             string              `json:"id" yaml:"id"`
	Title          string              `json:"title" yaml:"title"`
	Description    string              `json:"description" yaml:"description"`
	Address        string              `json:"address" yaml:"address"`
	City           string              `json:"city" yaml:"city"`
	State          string              `json:"state" yaml:"state"`
	ZipCode        string              `json:"zip_code" yaml:"zip_code"`
	Country        string              `json:"country" yaml:"country"`
	Coordinates    Coordinates         `json:"coordinates" yaml:"coordinates"`
	Images         []string            `json:"images" yaml:"images"`
	Video          string              `json:"video,omitempty" yaml:"video"`
	ARModel        string              `json:"ar_model,omitempty" yaml:"ar_model"`
	TotalTokens    int64               `json:"total_tokens" yaml:"total_tokens"`
	TokenPrice     float64             `json:"token_price" yaml:"token_price"` // Preço unitário do token em USD
	SoldTokens     int64               `json:"sold_tokens" yaml:"sold_tokens"`
	MonthlyRent    float64             `json:"monthly_rent" yaml:"monthly_rent"`
	AnnualYield    float64             `json:"annual_yield" yaml:"annual_yield"` // Em pontos percentuais (8.5 = 8,5%)
	EstimatedValue float64             `json:"estimated_value" yaml:"estimated_value"`
	TokenStandard  string              `json:"token_standard" yaml:"token_standard"` // "ERC-1400" ou "ERC-20"
	Partitions     []PropertyPartition `json:"partitions" yaml:"partitions"`
	Compliance     ComplianceInfo      `json:"compliance" yaml:"compliance"`
	EscrowAddress  string              `json:"escrow_address,omitempty" yaml:"escrow_address"`
	Status         PropertyStatus      `json:"status" yaml:"status"`
	CreatedAt      time.Time           `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" yaml:"updated_at"`
}

// RemainingTokens é a quantidade de tokens ainda disponível para compra.
func (p Property) RemainingTokens() int64 {
	return p.TotalTokens - p.SoldTokens
}
