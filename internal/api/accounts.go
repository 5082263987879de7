package api

import (
	"context"
	"fmt"
)

// Doctors lists all doctors visible to the account.
func (c *Client) Doctors(ctx context.Context) ([]User, error) {
	var doctors []User
	if err := c.get(ctx, "/doctors", &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Doctor fetches a doctor's profile.
func (c *Client) Doctor(ctx context.Context, id int64) (*User, error) {
	var doctor User
	if err := c.get(ctx, fmt.Sprintf("/doctors/%d", id), &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// Clients lists a doctor's patients.
func (c *Client) Clients(ctx context.Context) ([]User, error) {
	var clients []User
	if err := c.get(ctx, "/clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ClientByID fetches a patient's profile.
func (c *Client) ClientByID(ctx context.Context, id int64) (*User, error) {
	var client User
	if err := c.get(ctx, fmt.Sprintf("/clients/%d", id), &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateProfile updates an account's own profile fields.
func (c *Client) UpdateProfile(ctx context.Context, role Role, id int64, updates map[string]any) (*User, error) {
	var updated User
	if err := c.put(ctx, fmt.Sprintf("/%ss/%d", role, id), updates, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangePassword changes an account's password.
func (c *Client) ChangePassword(ctx context.Context, role Role, id int64, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.put(ctx, fmt.Sprintf("/%ss/%d/password", role, id), body, nil)
}

// UpdateDoctorPrice sets a doctor's default consultation price.
func (c *Client) UpdateDoctorPrice(ctx context.Context, id int64, defaultPrice float64, currencyCode string) error {
	body := map[string]any{
		"default_price": defaultPrice,
		"currency_code": currencyCode,
	}
	return c.put(ctx, fmt.Sprintf("/doctors/%d/price", id), body, nil)
}

// AccountAppointments lists the appointments of a given doctor or client.
func (c *Client) AccountAppointments(ctx context.Context, role Role, id int64) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.get(ctx, fmt.Sprintf("/%ss/%d/appointments", role, id), &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
