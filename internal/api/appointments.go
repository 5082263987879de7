package api

import (
	"context"
	"fmt"
)

// Appointment statuses used by the backend.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Appointment is a scheduled consultation between a doctor and a client.
type Appointment struct {
	ID           int64   `json:"id_rdv"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Description  string  `json:"description_rdv,omitempty"`
	Price        float64 `json:"price,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
	DoctorID     int64   `json:"id_doc,omitempty"`
	DoctorName   string  `json:"doctor_name,omitempty"`
	Specialty    string  `json:"specialite,omitempty"`
	ClientID     int64   `json:"id_clt,omitempty"`
	ClientName   string  `json:"client_name,omitempty"`
	ClientCity   string  `json:"client_ville,omitempty"`
}

// CreateAppointmentRequest books a time slot with a doctor.
type CreateAppointmentRequest struct {
	DoctorID    int64  `json:"id_doc"`
	ClientID    int64  `json:"id_clt,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description_rdv,omitempty"`
}

// TimeSlot is one bookable slot in a doctor's day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Appointments lists the appointments visible to the authenticated account.
func (c *Client) Appointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.get(ctx, "/appointments", &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Appointment fetches a single appointment by id.
func (c *Client) Appointment(ctx context.Context, id int64) (*Appointment, error) {
	var appointment Appointment
	if err := c.get(ctx, fmt.Sprintf("/appointments/%d", id), &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := c.post(ctx, "/appointments", req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateAppointment changes an appointment's date or description.
func (c *Client) UpdateAppointment(ctx context.Context, id int64, req CreateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := c.put(ctx, fmt.Sprintf("/appointments/%d", id), req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateAppointmentStatus transitions an appointment between statuses.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	return c.put(ctx, fmt.Sprintf("/appointments/%d/status", id), map[string]string{"status": status}, nil)
}

// UpdateAppointmentPrice sets the billed price; doctors only.
func (c *Client) UpdateAppointmentPrice(ctx context.Context, id int64, price float64) error {
	return c.put(ctx, fmt.Sprintf("/appointments/%d/price", id), map[string]float64{"price": price}, nil)
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/appointments/%d", id))
}

// AvailableSlots lists a doctor's open time slots on a date (YYYY-MM-DD).
func (c *Client) AvailableSlots(ctx context.Context, doctorID int64, date string) ([]TimeSlot, error) {
	var slots []TimeSlot
	path := fmt.Sprintf("/appointments/available/%d?date=%s", doctorID, date)
	if err := c.get(ctx, path, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// AppointmentsInRange lists appointments between two dates (YYYY-MM-DD).
func (c *Client) AppointmentsInRange(ctx context.Context, startDate, endDate string) ([]Appointment, error) {
	var appointments []Appointment
	path := fmt.Sprintf("/appointments/date-range?startDate=%s&endDate=%s", startDate, endDate)
	if err := c.get(ctx, path, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
