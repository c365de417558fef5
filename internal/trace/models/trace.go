// Package models defines the public trace view and the stored records it is
// composed from.
package models

import (
	"time"

	oraclemodels "agrotrace/internal/oracle/models"
)

// StageHarvest is the milestone stage that marks a harvest record; its
// presence contributes to the traceability score.
const StageHarvest = "harvest"

// LedgerAnchor references an on-chain anchor for a milestone.
type LedgerAnchor struct {
	TxHash        string `json:"tx_hash"`
	BlockNumber   int64  `json:"block_number"`
	Confirmations int    `json:"confirmations"`
}

// VegetationSnapshot is the per-milestone vegetation evidence derived from
// the matching oracle observation. IndexScore is the mean vegetation index
// rescaled to [-100,100] with one decimal.
type VegetationSnapshot struct {
	IndexScore float64 `json:"index_score"`
	CloudPct   float64 `json:"cloud_pct"`
	TileKey    string  `json:"tile_key,omitempty"`
}

// Milestone is one entry of a composed trace timeline. Any subset of the
// optional evidence fields may be absent.
type Milestone struct {
	Stage      string                        `json:"stage"`
	Timestamp  time.Time                     `json:"timestamp"`
	Location   string                        `json:"location,omitempty"`
	Vegetation *VegetationSnapshot           `json:"vegetation,omitempty"`
	Weather    *oraclemodels.WeatherSnapshot `json:"weather,omitempty"`
	Anchor     *LedgerAnchor                 `json:"anchor,omitempty"`
}

// FundsDetail is the anonymized financial view of a funds trace. InvestorRef
// is a one-way stable token; the real investor identifier is never exposed.
type FundsDetail struct {
	InvestorRef        string    `json:"investor_ref"`
	InvestorType       string    `json:"investor_type"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	ContributedAt      time.Time `json:"contributed_at"`
	AllocationPct      float64   `json:"allocation_pct"`
	TargetBatchID      string    `json:"target_batch_id"`
	ProjectedReturnPct float64   `json:"projected_return_pct"`
	ReturnStatus       string    `json:"return_status"`
}

// Return statuses exposed on funds traces.
const (
	ReturnStatusCompleted  = "Completed"
	ReturnStatusInProgress = "In Progress"
)

// TraceRecord is the composed public view. It is recomputed per request from
// the stored timeline and observations, never persisted as source of truth.
//
// Invariants: Timeline is ordered by timestamp ascending; Score is a
// deterministic function of the timeline contents, within [0,100].
type TraceRecord struct {
	TraceKey string      `json:"trace_key"`
	Timeline []Milestone `json:"timeline,omitempty"`
	Score    int         `json:"score,omitempty"`
	Funds    *FundsDetail `json:"funds,omitempty"`
}

// StoredMilestone is the persisted supply-chain event a timeline is built
// from. Vegetation and weather evidence are attached at composition time
// from the observation store, keyed by PlotID.
type StoredMilestone struct {
	Stage     string        `json:"stage"`
	Timestamp time.Time     `json:"timestamp"`
	Location  string        `json:"location,omitempty"`
	PlotID    string        `json:"plot_id,omitempty"`
	Anchor    *LedgerAnchor `json:"anchor,omitempty"`
}

// Contribution is the stored financial-allocation record behind a funds
// trace. InvestorID is internal and never leaves the store layer
// unanonymized.
type Contribution struct {
	ID                 string    `json:"id"`
	InvestorID         string    `json:"investor_id"`
	InvestorType       string    `json:"investor_type"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	ContributedAt      time.Time `json:"contributed_at"`
	AllocationPct      float64   `json:"allocation_pct"`
	TargetBatchID      string    `json:"target_batch_id"`
	ProjectedReturnPct float64   `json:"projected_return_pct"`
	ActualReturnPct    *float64  `json:"actual_return_pct,omitempty"`
}
