// Package services provides cost aggregation, report building and export
// rendering for projects.
package services

import (
	"fmt"
	"sort"
)

// Aggregate holds the computed cost figures for one project.
type Aggregate struct {
	Roles                  []string           `json:"roles"`
	DaysByRole             map[string]float64 `json:"daysByRole"`
	CostByRole             map[string]float64 `json:"costByRole"`
	LaborCost              float64            `json:"laborCost"`
	TaskTravelTotal        float64            `json:"taskTravelTotal"`
	TaskMaterialsTotal     float64            `json:"taskMaterialsTotal"`
	DetailedMaterialsTotal float64            `json:"detailedMaterialsTotal"`
	Subtotal               float64            `json:"subtotal"`
	RiskPercentage         float64            `json:"riskPercentage"`
	RiskAmount             float64            `json:"riskAmount"`
	GrandTotal             float64            `json:"grandTotal"`
}

// TotalDays returns the sum of DaysByRole over Roles.
func (a Aggregate) TotalDays() float64 {
	var sum float64
	for _, role := range a.Roles {
		sum += a.DaysByRole[role]
	}
	return sum
}

// TaskLevelCost is labor plus task travel and task materials, excluding
// detailed material items.
func (a Aggregate) TaskLevelCost() float64 {
	return a.LaborCost + a.TaskTravelTotal + a.TaskMaterialsTotal
}

// DailyRate returns the daily rate for role. Roles without a rate cost 0.
func DailyRate(rates []Rate, role string) float64 {
	for _, r := range rates {
		if r.Role != role {
			continue
		}
		if r.Unit == UnitHour {
			return r.Amount * HoursPerDay
		}
		return r.Amount
	}
	return 0
}

// TaskCost sums effort days times daily rate over every effort entry, then
// adds the task's travel and materials cost.
func TaskCost(task Task, rates []Rate) float64 {
	var cost float64
	for _, role := range sortedKeys(task.Efforts) {
		cost += task.Efforts[role] * DailyRate(rates, role)
	}
	return cost + task.TravelCost + task.MaterialsCost
}

// TaskDays sums all effort days on the task, including roles without a rate.
func TaskDays(task Task) float64 {
	var days float64
	for _, role := range sortedKeys(task.Efforts) {
		days += task.Efforts[role]
	}
	return days
}

// RoleColumns returns the distinct rate roles sorted ascending.
func RoleColumns(rates []Rate) []string {
	seen := make(map[string]bool, len(rates))
	roles := make([]string, 0, len(rates))
	for _, r := range rates {
		if seen[r.Role] {
			continue
		}
		seen[r.Role] = true
		roles = append(roles, r.Role)
	}
	sort.Strings(roles)
	return roles
}

// CalcAggregate computes the project cost figures. Per-role breakdowns only
// cover roles that have a rate; efforts on other roles are ignored there.
func CalcAggregate(project *Project, rates []Rate, tasks []Task, items []MaterialItem) (Aggregate, error) {
	if project == nil {
		return Aggregate{}, fmt.Errorf("aggregate: project is required: %w", ErrInvalidInput)
	}

	roles := RoleColumns(rates)
	agg := Aggregate{
		Roles:          roles,
		DaysByRole:     make(map[string]float64, len(roles)),
		CostByRole:     make(map[string]float64, len(roles)),
		RiskPercentage: project.RiskPercentage,
	}

	for _, role := range roles {
		var days float64
		for _, t := range tasks {
			days += t.Efforts[role]
		}
		agg.DaysByRole[role] = days
	}

	for _, role := range roles {
		cost := agg.DaysByRole[role] * DailyRate(rates, role)
		agg.CostByRole[role] = cost
		agg.LaborCost += cost
	}

	for _, t := range tasks {
		agg.TaskTravelTotal += t.TravelCost
		agg.TaskMaterialsTotal += t.MaterialsCost
	}

	for _, item := range items {
		agg.DetailedMaterialsTotal += item.Subtotal()
	}

	agg.Subtotal = agg.LaborCost + agg.TaskTravelTotal + agg.TaskMaterialsTotal + agg.DetailedMaterialsTotal
	agg.RiskAmount = agg.Subtotal * (project.RiskPercentage / 100)
	agg.GrandTotal = agg.Subtotal + agg.RiskAmount

	return agg, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
