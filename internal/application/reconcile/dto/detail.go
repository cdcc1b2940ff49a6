// internal/application/reconcile/dto/detail.go
package dto

import "time"

// MintRequestDetailDTO is a detail DTO for the mint request detail page.
// Key is productionId (= inspectionId = docId).
//
// Design goals:
// - Frontend can render the detail page by only calling GET /mint-requests/{productionId}
// - Keep DTO independent from domain structs
type MintRequestDetailDTO struct {
	ID           string `json:"id"`
	ProductionID string `json:"productionId"`

	ProductName string `json:"productName"`
	TokenName   string `json:"tokenName"`

	TokenBlueprintID   string `json:"tokenBlueprintId"`
	ProductBlueprintID string `json:"productBlueprintId"`

	MintQuantity       int `json:"mintQuantity"`
	ProductionQuantity int `json:"productionQuantity"`

	Status           string `json:"status"`
	StatusLabel      string `json:"statusLabel"`
	InspectionStatus string `json:"inspectionStatus"`

	RequestedBy   string     `json:"requestedBy"`
	CreatedByName string     `json:"createdByName"`
	MintedAt      *time.Time `json:"mintedAt,omitempty"`

	// optional nested summaries for detail page
	Production *ProductionSummaryDTO `json:"production,omitempty"`
	Inspection *InspectionSummaryDTO `json:"inspection,omitempty"`
	Mint       *MintSummaryDTO       `json:"mint,omitempty"`
}

// ProductionSummaryDTO is a minimal production summary for the detail page.
type ProductionSummaryDTO struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// InspectionSummaryDTO is a minimal inspection summary for the detail page.
type InspectionSummaryDTO struct {
	ProductionID string              `json:"productionId"`
	Status       string              `json:"status"`
	TotalPassed  int                 `json:"totalPassed"`
	Quantity     int                 `json:"quantity"`
	Inspections  []InspectionItemDTO `json:"inspections,omitempty"`
}

// InspectionItemDTO is one per-unit inspection row.
type InspectionItemDTO struct {
	ProductID        string     `json:"productId"`
	InspectionResult string     `json:"inspectionResult"`
	InspectedBy      string     `json:"inspectedBy,omitempty"`
	InspectedAt      *time.Time `json:"inspectedAt,omitempty"`
}

// MintSummaryDTO is a mint summary (safe for frontend).
type MintSummaryDTO struct {
	ID                string     `json:"id"`
	InspectionID      string     `json:"inspectionId"`
	TokenBlueprintID  string     `json:"tokenBlueprintId"`
	CreatedBy         string     `json:"createdBy"`
	CreatedByName     string     `json:"createdByName,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	Minted            bool       `json:"minted"`
	MintedAt          *time.Time `json:"mintedAt,omitempty"`
	ScheduledBurnDate *time.Time `json:"scheduledBurnDate,omitempty"`
	TxSignature       string     `json:"txSignature,omitempty"`
}
