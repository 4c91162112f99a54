// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package models defines the wire-level data structures exchanged with the
// field service backend. Field names follow the backend's snake_case JSON
// conventions; the backend owns all business validation, so these structs
// carry no behavior beyond convenience accessors.
package models

import "time"

// Customer represents a field-service customer account.
//
// Customers own subscriptions and receive technician visits. The Contacts
// slice is populated on detail reads; list endpoints may omit it.
type Customer struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	ZipCode   string    `json:"zip_code,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	Contacts  []Contact `json:"contacts,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Contact is a person attached to a customer account.
type Contact struct {
	ID       int64  `json:"id,omitempty"`
	Customer int64  `json:"customer,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Plan is a subscription plan offered to customers.
//
// Price is a decimal string to avoid float drift over the wire; the backend
// emits it that way.
type Plan struct {
	ID            int64      `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         string     `json:"price"`
	BillingPeriod string     `json:"billing_period,omitempty"` // monthly, quarterly, yearly
	VisitsPerTerm int        `json:"visits_per_term,omitempty"`
	Active        bool       `json:"active"`
	Tasks         []PlanTask `json:"tasks,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

// PlanTask is a unit of work a technician performs during a plan visit.
type PlanTask struct {
	ID          int64  `json:"id,omitempty"`
	Plan        int64  `json:"plan"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// Subscription statuses reported by the backend.
const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription links a customer to a plan for a billing term.
//
// CustomerName and PlanName are denormalized read-only fields the backend
// adds for display; they are ignored on writes.
type Subscription struct {
	ID           int64     `json:"id,omitempty"`
	Customer     int64     `json:"customer"`
	Plan         int64     `json:"plan"`
	CustomerName string    `json:"customer_name,omitempty"`
	PlanName     string    `json:"plan_name,omitempty"`
	Status       string    `json:"status,omitempty"`
	StartDate    string    `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string    `json:"end_date,omitempty"`   // YYYY-MM-DD, empty while active
	Price        string    `json:"price,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Visit statuses reported by the backend.
const (
	VisitScheduled  = "scheduled"
	VisitInProgress = "in_progress"
	VisitCompleted  = "completed"
	VisitCancelled  = "cancelled"
)

// Visit is a technician appointment under a subscription.
//
// Lifecycle transitions (start, complete, cancel) go through dedicated
// endpoints rather than generic PATCH; see api.VisitsService.
type Visit struct {
	ID           int64      `json:"id,omitempty"`
	Subscription int64      `json:"subscription"`
	Customer     int64      `json:"customer,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	Technician   int64      `json:"technician,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Status       string     `json:"status,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Evidence is a photo or document captured during a visit.
// File is a server-side URL on reads; uploads go through multipart form
// encoding (api.EvidenceService.Upload).
type Evidence struct {
	ID         int64     `json:"id,omitempty"`
	Visit      int64     `json:"visit"`
	File       string    `json:"file,omitempty"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// MaterialUsed records consumables spent on a visit.
type MaterialUsed struct {
	ID       int64  `json:"id,omitempty"`
	Visit    int64  `json:"visit"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"` // decimal string
	Unit     string `json:"unit,omitempty"`
	Cost     string `json:"cost,omitempty"` // decimal string
}

// User is a backend account (administrator or technician).
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
	IsActive  bool   `json:"is_active,omitempty"`
}

// FullName returns the user's display name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
