package api

import (
	"context"
	"fmt"
)

// MedicalRecord is a client's medical record with its nested collections.
type MedicalRecord struct {
	ClientID      int64          `json:"id_clt"`
	BloodType     string         `json:"blood_type,omitempty"`
	Height        float64        `json:"height,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Allergies     []Allergy      `json:"allergies,omitempty"`
	Conditions    []Condition    `json:"conditions,omitempty"`
	Consultations []Consultation `json:"consultations,omitempty"`
}

// Allergy is one recorded allergy.
type Allergy struct {
	ID       int64  `json:"id"`
	Name     string `json:"allergy_name"`
	Severity string `json:"severity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Condition is one diagnosed condition.
type Condition struct {
	ID            int64  `json:"id"`
	Name          string `json:"condition_name"`
	DiagnosisDate string `json:"diagnosis_date,omitempty"`
	Status        string `json:"status,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Consultation is one consultation note attached to the record.
type Consultation struct {
	ID         int64  `json:"id"`
	Date       string `json:"consultation_date"`
	Type       string `json:"consultation_type,omitempty"`
	DoctorName string `json:"doctor_name,omitempty"`
	Diagnosis  string `json:"diagnosis,omitempty"`
	Treatment  string `json:"treatment,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// RecordLogEntry is one entry of a record's access/change audit trail.
type RecordLogEntry struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Actor     string `json:"actor,omitempty"`
	CreatedAt string `json:"created_at"`
}

// MedicalRecord fetches a client's record.
func (c *Client) MedicalRecord(ctx context.Context, clientID int64) (*MedicalRecord, error) {
	var record MedicalRecord
	if err := c.get(ctx, fmt.Sprintf("/medical-records/%d", clientID), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateMedicalRecord overwrites the record's top-level fields.
func (c *Client) UpdateMedicalRecord(ctx context.Context, clientID int64, record MedicalRecord) error {
	return c.put(ctx, fmt.Sprintf("/medical-records/%d", clientID), record, nil)
}

// AddAllergy records an allergy on a client's record.
func (c *Client) AddAllergy(ctx context.Context, clientID int64, allergy Allergy) (*Allergy, error) {
	var created Allergy
	if err := c.post(ctx, fmt.Sprintf("/medical-records/%d/allergies", clientID), allergy, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveAllergy deletes an allergy from a client's record.
func (c *Client) RemoveAllergy(ctx context.Context, clientID, allergyID int64) error {
	return c.delete(ctx, fmt.Sprintf("/medical-records/%d/allergies/%d", clientID, allergyID))
}

// AddCondition records a condition on a client's record.
func (c *Client) AddCondition(ctx context.Context, clientID int64, condition Condition) (*Condition, error) {
	var created Condition
	if err := c.post(ctx, fmt.Sprintf("/medical-records/%d/conditions", clientID), condition, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCondition updates a condition on a client's record.
func (c *Client) UpdateCondition(ctx context.Context, clientID, conditionID int64, condition Condition) error {
	return c.put(ctx, fmt.Sprintf("/medical-records/%d/conditions/%d", clientID, conditionID), condition, nil)
}

// RemoveCondition deletes a condition from a client's record.
func (c *Client) RemoveCondition(ctx context.Context, clientID, conditionID int64) error {
	return c.delete(ctx, fmt.Sprintf("/medical-records/%d/conditions/%d", clientID, conditionID))
}

// AddConsultation attaches a consultation note to a client's record.
func (c *Client) AddConsultation(ctx context.Context, clientID int64, consultation Consultation) (*Consultation, error) {
	var created Consultation
	if err := c.post(ctx, fmt.Sprintf("/medical-records/%d/consultations", clientID), consultation, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateConsultation updates a consultation note.
func (c *Client) UpdateConsultation(ctx context.Context, clientID, consultationID int64, consultation Consultation) error {
	return c.put(ctx, fmt.Sprintf("/medical-records/%d/consultations/%d", clientID, consultationID), consultation, nil)
}

// RecordLogs fetches a record's audit trail.
func (c *Client) RecordLogs(ctx context.Context, clientID int64) ([]RecordLogEntry, error) {
	var logs []RecordLogEntry
	if err := c.get(ctx, fmt.Sprintf("/medical-records/%d/logs", clientID), &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
