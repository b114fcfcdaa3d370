package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifeos/backend/internal/application/patch"
	"github.com/lifeos/backend/internal/domain/crm"
)

// =============================================================================
// Workflow DTOs
// =============================================================================

// CreateWorkflowRequest represents a request to create a stage workflow
type CreateWorkflowRequest struct {
	Name   string   `json:"name" binding:"required,min=1,max=100"`
	Stages []string `json:"stages" binding:"required,min=1,dive,required,max=100"`
}

// UpdateWorkflowRequest represents a partial update to a workflow
type UpdateWorkflowRequest struct {
	Name   *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Stages []string `json:"stages" binding:"omitempty,min=1,dive,required,max=100"`
}

// WorkflowResponse represents a workflow in API responses
type WorkflowResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Stages    []string  `json:"stages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWorkflowResponse converts a domain Workflow to WorkflowResponse
func ToWorkflowResponse(w *crm.Workflow) WorkflowResponse {
	return WorkflowResponse{
		ID:        w.ID,
		Name:      w.Name,
		Stages:    w.StageList(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// =============================================================================
// Lead DTOs
// =============================================================================

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Email      string     `json:"email" binding:"omitempty,email,max=255"`
	Phone      string     `json:"phone" binding:"max=50"`
	Note       string     `json:"note" binding:"max=5000"`
	Source     string     `json:"source" binding:"max=100"`
	WorkflowID *uuid.UUID `json:"workflow_id"`
	Stage      string     `json:"stage" binding:"max=100"`
}

// UpdateLeadRequest represents a partial update to a lead. An explicit null
// workflow_id detaches the lead from its workflow; an omitted key leaves it
// alone.
type UpdateLeadRequest struct {
	Name       *string                `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string                `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string                `json:"phone" binding:"omitempty,max=50"`
	Note       *string                `json:"note" binding:"omitempty,max=5000"`
	Source     *string                `json:"source" binding:"omitempty,max=100"`
	WorkflowID patch.Field[uuid.UUID] `json:"workflow_id"`
	Stage      *string                `json:"stage" binding:"omitempty,max=100"`
	Archived   *bool                  `json:"archived"`
}

// MoveLeadRequest moves a lead to another stage of its workflow
type MoveLeadRequest struct {
	Stage string `json:"stage" binding:"required,max=100"`
}

// AssignWorkflowRequest places a lead into a workflow at a stage
type AssignWorkflowRequest struct {
	WorkflowID uuid.UUID `json:"workflow_id" binding:"required"`
	Stage      string    `json:"stage" binding:"required,max=100"`
}

// LeadResponse represents a lead in API responses. Phone is decrypted for
// the owner only.
type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Note       string     `json:"note,omitempty"`
	Source     string     `json:"source,omitempty"`
	WorkflowID *uuid.UUID `json:"workflow_id,omitempty"`
	Stage      string     `json:"stage,omitempty"`
	Archived   bool       `json:"archived"`
	CardID     string     `json:"taskboard_card_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToLeadResponse converts a domain Lead to LeadResponse with the phone
// already decrypted
func ToLeadResponse(l *crm.Lead, phone string) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      phone,
		Note:       l.Note,
		Source:     l.Source,
		WorkflowID: l.WorkflowID,
		Stage:      l.Stage,
		Archived:   l.Archived,
		CardID:     l.TaskboardCardID,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// =============================================================================
// Booking DTOs
// =============================================================================

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	LeadID          *uuid.UUID      `json:"lead_id"`
	ClientName      string          `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail     string          `json:"client_email" binding:"omitempty,email,max=255"`
	StartsAt        time.Time       `json:"starts_at" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=5,max=720"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	Note            string          `json:"note" binding:"max=5000"`
}

// UpdateBookingRequest represents a partial update to a pending booking
type UpdateBookingRequest struct {
	ClientName      *string          `json:"client_name" binding:"omitempty,min=1,max=200"`
	ClientEmail     *string          `json:"client_email" binding:"omitempty,email,max=255"`
	StartsAt        *time.Time       `json:"starts_at"`
	DurationMinutes *int             `json:"duration_minutes" binding:"omitempty,min=5,max=720"`
	Price           *decimal.Decimal `json:"price"`
	Currency        *string          `json:"currency" binding:"omitempty,len=3"`
	Note            *string          `json:"note" binding:"omitempty,max=5000"`
}

// AvailabilityRequest asks whether a slot is free
type AvailabilityRequest struct {
	StartsAt        time.Time `form:"starts_at" binding:"required"`
	DurationMinutes int       `form:"duration_minutes" binding:"required,min=5,max=720"`
}

// AvailabilityResponse reports slot availability, conflicting bookings, and
// busy ranges from the external calendar
type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []BookingResponse `json:"conflicts,omitempty"`
	Busy      []crm.BusySlot    `json:"busy,omitempty"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID              uuid.UUID       `json:"id"`
	LeadID          *uuid.UUID      `json:"lead_id,omitempty"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email,omitempty"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	Note            string          `json:"note,omitempty"`
	CalendarEventID string          `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBookingResponse converts a domain Booking to BookingResponse
func ToBookingResponse(b *crm.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		LeadID:          b.LeadID,
		ClientName:      b.ClientName,
		ClientEmail:     b.ClientEmail,
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt(),
		DurationMinutes: b.DurationMinutes,
		Price:           b.Price,
		Currency:        b.Currency,
		Status:          string(b.Status),
		Note:            b.Note,
		CalendarEventID: b.CalendarEventID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
