package api

import (
	"context"
	"fmt"
)

// Notification is one portal notification for the account.
type Notification struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NotificationPreferences controls which events notify the account.
type NotificationPreferences struct {
	EmailEnabled        bool `json:"email_enabled"`
	AppointmentReminder bool `json:"appointment_reminder"`
	NewMessage          bool `json:"new_message"`
	PrescriptionUpdate  bool `json:"prescription_update"`
}

// Notifications lists the account's notifications.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.get(ctx, "/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.put(ctx, "/notifications/read-all", nil, nil)
}

// NotificationPreferences fetches the account's notification settings.
func (c *Client) NotificationPreferences(ctx context.Context) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	if err := c.get(ctx, "/notifications/preferences", &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdateNotificationPreferences updates the account's notification settings.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs NotificationPreferences) error {
	return c.put(ctx, "/notifications/preferences", prefs, nil)
}

// SendAppointmentReminder asks the backend to send a reminder for an
// appointment; doctors only.
func (c *Client) SendAppointmentReminder(ctx context.Context, appointmentID int64) error {
	return c.post(ctx, fmt.Sprintf("/notifications/appointments/%d/send-reminder", appointmentID), nil, nil)
}
