package services

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInput signals a missing required record (e.g. a nil project).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a unique name/role collision.
	ErrConflict = errors.New("conflict")
)

// Rate units.
const (
	UnitDay  = "day"
	UnitHour = "hour"
)

// HoursPerDay converts hourly rates to daily rates.
const HoursPerDay = 8

// RateUnits lists the accepted rate units.
var RateUnits = []string{UnitDay, UnitHour}

// Project is a read-only snapshot of a project record.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	RiskPercentage float64   `json:"riskPercentage"`
	Created        time.Time `json:"createdAt"`
}

// Rate is a labor rate for one role.
type Rate struct {
	ID     string  `json:"id"`
	Role   string  `json:"role"`
	Amount float64 `json:"rate"`
	Unit   string  `json:"unit"`
}

// Task is a unit of planned work with per-role effort in days.
type Task struct {
	ID            string             `json:"id"`
	ProjectID     string             `json:"projectId"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Efforts       map[string]float64 `json:"efforts"`
	TravelCost    float64            `json:"travelCost"`
	MaterialsCost float64            `json:"materialsCost"`
	Sequence      int                `json:"sequence"`
	Created       time.Time          `json:"createdAt"`
}

// MaterialItem is a priced, project-specific material line.
type MaterialItem struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	LineItem  string    `json:"lineItem"`
	Vendor    string    `json:"vendor"`
	Category  string    `json:"category"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  float64   `json:"quantity"`
	Comment   string    `json:"comment"`
	Created   time.Time `json:"createdAt"`
}

// Subtotal returns unit price times quantity.
func (m MaterialItem) Subtotal() float64 {
	return m.UnitPrice * m.Quantity
}

// GlobalMaterial is a catalogue entry with a reusable unit price.
type GlobalMaterial struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unitPrice"`
}
