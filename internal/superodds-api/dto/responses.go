package dto

import (
	"time"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// SuperOddsResponse é o resultado de uma extração, como guardado no cache
type SuperOddsResponse struct {
	Timestamp       time.Time          `json:"timestamp"`
	URL             string             `json:"url,omitempty"`
	TotalOdds       int                `json:"totalOdds"`
	Odds            []models.OddRecord `json:"odds"`
	Status          string             `json:"status"`
	HTMLSize        int                `json:"htmlSize"`
	Tier            string             `json:"tier,omitempty"`
	Source          string             `json:"source"` // api | manual
	FetchMethod     string             `json:"fetchMethod,omitempty"`
	StrategiesTried int                `json:"strategiesTried,omitempty"`
}

// SuperOddsEnvelope acrescenta os metadados da resposta HTTP
type SuperOddsEnvelope struct {
	Success bool `json:"success"`
	Cached  bool `json:"cached"`
	SuperOddsResponse
	LastUpdate time.Time `json:"lastUpdate"`
	CacheTTLMs int64     `json:"cacheTtlMs,omitempty"`
}

// WebhookResponse confirma o recebimento de odds da extensão
type WebhookResponse struct {
	Success   bool      `json:"success"`
	Received  time.Time `json:"received"`
	Processed int       `json:"processed"`
}

// ProxyResponse devolve o HTML bruto obtido pelo fetcher
type ProxyResponse struct {
	Success bool   `json:"success"`
	HTML    string `json:"html"`
	Method  string `json:"method"`
}

// ErrorResponse é o formato único de erro da API
type ErrorResponse struct {
	Success             bool      `json:"success"`
	Error               string    `json:"error"`
	Timestamp           time.Time `json:"timestamp"`
	Suggestions         []string  `json:"suggestions,omitempty"`
	ManualModeAvailable bool      `json:"manualModeAvailable"`
	BlockDetected       bool      `json:"blockDetected"`
	PrioritySuggestion  string    `json:"prioritySuggestion,omitempty"`
}
