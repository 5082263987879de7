package api

import (
	"context"
	"fmt"
)

// Prescription is an issued prescription with its medication lines.
type Prescription struct {
	ID          int64            `json:"id"`
	DoctorID    int64            `json:"id_doc"`
	DoctorName  string           `json:"doctor_name,omitempty"`
	ClientID    int64            `json:"id_clt"`
	ClientName  string           `json:"client_name,omitempty"`
	Status      string           `json:"status"`
	Notes       string           `json:"notes,omitempty"`
	Medications []MedicationLine `json:"medications,omitempty"`
	CreatedAt   string           `json:"created_at,omitempty"`
}

// MedicationLine is one medication on a prescription.
type MedicationLine struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
}

// Pharmacy is a pharmacy a prescription can be sent to.
type Pharmacy struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// CreatePrescriptionRequest issues a prescription for a client.
type CreatePrescriptionRequest struct {
	ClientID    int64            `json:"id_clt"`
	Notes       string           `json:"notes,omitempty"`
	Medications []MedicationLine `json:"medications"`
}

// ClientPrescriptions lists prescriptions issued to a client.
func (c *Client) ClientPrescriptions(ctx context.Context, clientID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.get(ctx, fmt.Sprintf("/prescriptions/client/%d", clientID), &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// DoctorPrescriptions lists prescriptions issued by a doctor.
func (c *Client) DoctorPrescriptions(ctx context.Context, doctorID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.get(ctx, fmt.Sprintf("/prescriptions/doctor/%d", doctorID), &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Prescription fetches a single prescription by id.
func (c *Client) Prescription(ctx context.Context, id int64) (*Prescription, error) {
	var prescription Prescription
	if err := c.get(ctx, fmt.Sprintf("/prescriptions/%d", id), &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

// CreatePrescription issues a new prescription; doctors only.
func (c *Client) CreatePrescription(ctx context.Context, req CreatePrescriptionRequest) (*Prescription, error) {
	var prescription Prescription
	if err := c.post(ctx, "/prescriptions", req, &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

// UpdatePrescriptionStatus transitions a prescription's status.
func (c *Client) UpdatePrescriptionStatus(ctx context.Context, id int64, status string) error {
	return c.put(ctx, fmt.Sprintf("/prescriptions/%d/status", id), map[string]string{"status": status}, nil)
}

// SendPrescription forwards a prescription to a pharmacy.
func (c *Client) SendPrescription(ctx context.Context, id, pharmacyID int64) error {
	body := map[string]int64{"pharmacy_id": pharmacyID}
	return c.post(ctx, fmt.Sprintf("/prescriptions/%d/send", id), body, nil)
}

// Pharmacies lists the known pharmacy directory.
func (c *Client) Pharmacies(ctx context.Context) ([]Pharmacy, error) {
	var pharmacies []Pharmacy
	if err := c.get(ctx, "/prescriptions/pharmacies", &pharmacies); err != nil {
		return nil, err
	}
	return pharmacies, nil
}

// AddPharmacy registers a pharmacy in the directory.
func (c *Client) AddPharmacy(ctx context.Context, pharmacy Pharmacy) (*Pharmacy, error) {
	var created Pharmacy
	if err := c.post(ctx, "/prescriptions/pharmacies", pharmacy, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
