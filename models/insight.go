package models

import "time"

type InsightType string

const (
	InsightSuggestion  InsightType = "suggestion"
	InsightAlert       InsightType = "alert"
	InsightOpportunity InsightType = "opportunity"
)

// AIInsight é uma recomendação descartável exibida ao investidor.
// Confidence fica no intervalo [0,1].
type AIInsight struct {
	ID          string      `json:"id" yaml:"id"`
	Type        InsightType `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Confidence  float64     `json:"confidence" yaml:"confidence"`
	PropertyID  string      `json:"property_id,omitempty" yaml:"property_id"`
	UserID      string      `json:"user_id" yaml:"user_id"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	Dismissed   bool        `json:"dismissed" yaml:"dismissed"`
}
