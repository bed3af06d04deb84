package server

import (
	"time"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/storage/types"
)

type ListResponse struct {
	Default string   `json:"default"`
	Results []string `json:"results"`
}

type PriceEntry struct {
	Name       string  `json:"name"`
	ChaosValue float64 `json:"chaos_value"`
}

type PricesResponse struct {
	Key     types.Key     `json:"key"`
	Updated *time.Time    `json:"updated"`
	State   dataset.State `json:"state"`
	Stale   bool          `json:"stale"`
	Results []PriceEntry  `json:"results"`
}

type PriceResponse struct {
	Key     types.Key     `json:"key"`
	Updated *time.Time    `json:"updated"`
	State   dataset.State `json:"state"`
	Stale   bool          `json:"stale"`
	Result  PriceEntry    `json:"result"`
	Line    types.Record  `json:"line"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
