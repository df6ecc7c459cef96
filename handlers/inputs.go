package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

var (
	nonNegative = validation.Min(0.0)
	unitRule    = validation.In(services.UnitDay, services.UnitHour).Error("must be \"day\" or \"hour\"")
)

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// ── Projects ─────────────────────────────────────────────────────────────

// ProjectInput is the body of POST /projects.
type ProjectInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RiskPercentage float64 `json:"riskPercentage"`
}

func (in *ProjectInput) normalize() { in.Name = strings.TrimSpace(in.Name) }

func (in ProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.RiskPercentage, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (in ProjectInput) Apply(r *core.Record) {
	r.Set("name", in.Name)
	r.Set("description", in.Description)
	r.Set("risk_percentage", in.RiskPercentage)
}

// ProjectPatch is the body of PUT /projects/{id}. Nil fields are left as is.
type ProjectPatch struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	RiskPercentage *float64 `json:"riskPercentage"`
}

func (p *ProjectPatch) normalize() { trimPtr(p.Name) }

func (p ProjectPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.RiskPercentage, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (p ProjectPatch) Apply(r *core.Record) {
	if p.Name != nil {
		r.Set("name", *p.Name)
	}
	if p.Description != nil {
		r.Set("description", *p.Description)
	}
	if p.RiskPercentage != nil {
		r.Set("risk_percentage", *p.RiskPercentage)
	}
}

// ── Rates ────────────────────────────────────────────────────────────────

// RateInput is the body of POST /rates. An empty unit means "day".
type RateInput struct {
	Role string  `json:"role"`
	Rate float64 `json:"rate"`
	Unit string  `json:"unit"`
}

func (in *RateInput) normalize() {
	in.Role = strings.TrimSpace(in.Role)
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	if in.Unit == "" {
		in.Unit = services.UnitDay
	}
}

func (in RateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Role, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Rate, nonNegative),
		validation.Field(&in.Unit, validation.Required, unitRule),
	)
}

func (in RateInput) Apply(r *core.Record) {
	r.Set("role", in.Role)
	r.Set("rate", in.Rate)
	r.Set("unit", in.Unit)
}

// RatePatch is the body of PUT /rates/{id}.
type RatePatch struct {
	Role *string  `json:"role"`
	Rate *float64 `json:"rate"`
	Unit *string  `json:"unit"`
}

func (p *RatePatch) normalize() {
	trimPtr(p.Role)
	if p.Unit != nil {
		u := strings.ToLower(strings.TrimSpace(*p.Unit))
		p.Unit = &u
	}
}

func (p RatePatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Role, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.Rate, nonNegative),
		validation.Field(&p.Unit, validation.NilOrNotEmpty, unitRule),
	)
}

func (p RatePatch) Apply(r *core.Record) {
	if p.Role != nil {
		r.Set("role", *p.Role)
	}
	if p.Rate != nil {
		r.Set("rate", *p.Rate)
	}
	if p.Unit != nil {
		r.Set("unit", *p.Unit)
	}
}

// ── Tasks ────────────────────────────────────────────────────────────────

// TaskInput is the body of POST /tasks. Effort values are coerced to days;
// anything non-numeric counts as 0.
type TaskInput struct {
	ProjectID     string         `json:"projectId"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Efforts       map[string]any `json:"efforts"`
	TravelCost    float64        `json:"travelCost"`
	MaterialsCost float64        `json:"materialsCost"`
}

func (in *TaskInput) normalize() {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Name = strings.TrimSpace(in.Name)
}

func (in TaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProjectID, validation.Required),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.TravelCost, nonNegative),
		validation.Field(&in.MaterialsCost, nonNegative),
	)
}

func (in TaskInput) Apply(r *core.Record) {
	r.Set("project", in.ProjectID)
	r.Set("name", in.Name)
	r.Set("description", in.Description)
	r.Set("efforts", services.CoerceEfforts(in.Efforts))
	r.Set("travel_cost", in.TravelCost)
	r.Set("materials_cost", in.MaterialsCost)
}

// TaskPatch is the body of PUT /tasks/{id}. The owning project cannot be
// changed. A nil Efforts map leaves efforts untouched; {} clears them.
type TaskPatch struct {
	Name          *string        `json:"name"`
	Description   *string        `json:"description"`
	Efforts       map[string]any `json:"efforts"`
	TravelCost    *float64       `json:"travelCost"`
	MaterialsCost *float64       `json:"materialsCost"`
	Sequence      *int           `json:"sequence"`
}

func (p *TaskPatch) normalize() { trimPtr(p.Name) }

func (p TaskPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.TravelCost, nonNegative),
		validation.Field(&p.MaterialsCost, nonNegative),
	)
}

func (p TaskPatch) Apply(r *core.Record) {
	if p.Name != nil {
		r.Set("name", *p.Name)
	}
	if p.Description != nil {
		r.Set("description", *p.Description)
	}
	if p.Efforts != nil {
		r.Set("efforts", services.CoerceEfforts(p.Efforts))
	}
	if p.TravelCost != nil {
		r.Set("travel_cost", *p.TravelCost)
	}
	if p.MaterialsCost != nil {
		r.Set("materials_cost", *p.MaterialsCost)
	}
	if p.Sequence != nil {
		r.Set("sequence", *p.Sequence)
	}
}

// SequenceUpdate is one entry of PUT /tasks/sequence.
type SequenceUpdate struct {
	ID       *string `json:"id"`
	Sequence *int    `json:"sequence"`
}

func (u SequenceUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.NotNil, validation.NilOrNotEmpty),
		validation.Field(&u.Sequence, validation.NotNil),
	)
}

// ── Material items ───────────────────────────────────────────────────────

// MaterialItemInput is the body of POST /material_items. A missing quantity
// means 1.
type MaterialItemInput struct {
	ProjectID string  `json:"projectId"`
	LineItem  string  `json:"lineItem"`
	Vendor    string  `json:"vendor"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  *int    `json:"quantity"`
	Comment   string  `json:"comment"`
}

func (in *MaterialItemInput) normalize() {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.LineItem = strings.TrimSpace(in.LineItem)
	in.Category = strings.TrimSpace(in.Category)
	if in.Quantity == nil {
		one := 1
		in.Quantity = &one
	}
}

func (in MaterialItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProjectID, validation.Required),
		validation.Field(&in.LineItem, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.UnitPrice, nonNegative),
		validation.Field(&in.Quantity, validation.Min(0)),
	)
}

func (in MaterialItemInput) Apply(r *core.Record) {
	r.Set("project", in.ProjectID)
	r.Set("line_item", in.LineItem)
	r.Set("vendor", in.Vendor)
	r.Set("category", in.Category)
	r.Set("unit_price", in.UnitPrice)
	r.Set("quantity", *in.Quantity)
	r.Set("comment", in.Comment)
}

// MaterialItemPatch is the body of PUT /material_items/{id}.
type MaterialItemPatch struct {
	LineItem  *string  `json:"lineItem"`
	Vendor    *string  `json:"vendor"`
	Category  *string  `json:"category"`
	UnitPrice *float64 `json:"unitPrice"`
	Quantity  *int     `json:"quantity"`
	Comment   *string  `json:"comment"`
}

func (p *MaterialItemPatch) normalize() {
	trimPtr(p.LineItem)
	trimPtr(p.Category)
}

func (p MaterialItemPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LineItem, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.UnitPrice, nonNegative),
		validation.Field(&p.Quantity, validation.Min(0)),
	)
}

func (p MaterialItemPatch) Apply(r *core.Record) {
	if p.LineItem != nil {
		r.Set("line_item", *p.LineItem)
	}
	if p.Vendor != nil {
		r.Set("vendor", *p.Vendor)
	}
	if p.Category != nil {
		r.Set("category", *p.Category)
	}
	if p.UnitPrice != nil {
		r.Set("unit_price", *p.UnitPrice)
	}
	if p.Quantity != nil {
		r.Set("quantity", *p.Quantity)
	}
	if p.Comment != nil {
		r.Set("comment", *p.Comment)
	}
}

// ── Global materials ─────────────────────────────────────────────────────

// GlobalMaterialInput is the body of POST /global_materials.
type GlobalMaterialInput struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unitPrice"`
}

func (in *GlobalMaterialInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
}

func (in GlobalMaterialInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.UnitPrice, nonNegative),
	)
}

func (in GlobalMaterialInput) Apply(r *core.Record) {
	r.Set("name", in.Name)
	r.Set("category", in.Category)
	r.Set("unit_price", in.UnitPrice)
}

// GlobalMaterialPatch is the body of PUT /global_materials/{id}.
type GlobalMaterialPatch struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	UnitPrice *float64 `json:"unitPrice"`
}

func (p *GlobalMaterialPatch) normalize() {
	trimPtr(p.Name)
	trimPtr(p.Category)
}

func (p GlobalMaterialPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.UnitPrice, nonNegative),
	)
}

func (p GlobalMaterialPatch) Apply(r *core.Record) {
	if p.Name != nil {
		r.Set("name", *p.Name)
	}
	if p.Category != nil {
		r.Set("category", *p.Category)
	}
	if p.UnitPrice != nil {
		r.Set("unit_price", *p.UnitPrice)
	}
}

// ── Binding ──────────────────────────────────────────────────────────────

// recordInput is implemented by every input and patch type above.
type recordInput interface {
	validation.Validatable
	Apply(r *core.Record)
}

type normalizer interface {
	normalize()
}

// bindInput decodes the request body into dst, normalizes and validates it.
// On failure the 400 response has already been written and handled is true.
func bindInput(e *core.RequestEvent, dst recordInput) (handled bool, err error) {
	if err := e.BindBody(dst); err != nil {
		return true, ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := dst.Validate(); err != nil {
		return true, ValidationErrorJSON(e, err)
	}
	return false, nil
}
