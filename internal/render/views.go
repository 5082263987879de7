package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/caresync/caresync/internal/api"
)

// View renders API records as styled text.
type View struct {
	w      io.Writer
	styles Styles
}

// NewView creates a text view writing to w.
func NewView(w io.Writer) *View {
	return &View{w: w, styles: DefaultStyles()}
}

func (v *View) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(v.styles.Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.styles.Header.Padding(0, 1)
			}
			return v.styles.Value.Padding(0, 1)
		}).
		Headers(headers...)
}

// Profile prints an account profile.
func (v *View) Profile(user *api.User) {
	fmt.Fprintln(v.w, v.styles.Title.Render(user.DisplayName()))
	v.field("Role", string(user.Role))
	v.field("Email", user.Email)
	v.field("Phone", user.Phone)
	v.field("City", user.City)
	if user.Role == api.RoleDoctor {
		v.field("Specialty", user.Specialty)
		if user.DefaultPrice > 0 {
			v.field("Consultation price", fmt.Sprintf("%.2f %s", user.DefaultPrice, user.CurrencyCode))
		}
	}
}

func (v *View) field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(v.w, "%s %s\n", v.styles.Label.Render(label+":"), v.styles.Value.Render(value))
}

// Appointments prints a table of appointments; the counterparty column
// depends on which role is viewing.
func (v *View) Appointments(appointments []api.Appointment, viewer api.Role) {
	if len(appointments) == 0 {
		fmt.Fprintln(v.w, v.styles.Muted.Render("No appointments."))
		return
	}

	with := "Doctor"
	if viewer == api.RoleDoctor {
		with = "Patient"
	}

	tbl := v.newTable("ID", "Date", with, "Status", "Description")
	for _, a := range appointments {
		name := a.DoctorName
		if viewer == api.RoleDoctor {
			name = a.ClientName
		}
		tbl.Row(
			fmt.Sprintf("%d", a.ID),
			a.Date,
			name,
			v.styles.statusStyle(a.Status).Render(a.Status),
			truncate(a.Description, 40),
		)
	}
	fmt.Fprintln(v.w, tbl)
}

// Slots prints a day's availability grid.
func (v *View) Slots(date string, slots []api.TimeSlot) {
	fmt.Fprintln(v.w, v.styles.Title.Render("Availability for "+date))
	if len(slots) == 0 {
		fmt.Fprintln(v.w, v.styles.Muted.Render("No slots."))
		return
	}
	for _, s := range slots {
		marker := v.styles.Success.Render("open")
		if !s.Available {
			marker = v.styles.Muted.Render("taken")
		}
		fmt.Fprintf(v.w, "  %s  %s\n", v.styles.Value.Render(s.Time), marker)
	}
}

// Conversations prints the inbox listing.
func (v *View) Conversations(conversations []api.Conversation, viewer api.Role) {
	if len(conversations) == 0 {
		fmt.Fprintln(v.w, v.styles.Muted.Render("No conversations."))
		return
	}

	tbl := v.newTable("With", "Last message", "Date", "Unread")
	for _, c := range conversations {
		name := c.DoctorName
		if viewer == api.RoleDoctor {
			name = c.ClientName
		}
		unread := ""
		if c.UnreadCount > 0 {
			unread = v.styles.Unread.Render(fmt.Sprintf("%d", c.UnreadCount))
		}
		tbl.Row(name, truncate(c.LastMessage, 40), c.LastMessageDate, unread)
	}
	fmt.Fprintln(v.w, tbl)
}

// Messages prints a conversation transcript, newest last.
func (v *View) Messages(messages []api.Message, viewer api.Role) {
	for _, m := range messages {
		who := "Them"
		style := v.styles.Value
		if m.SenderType == viewer {
			who = "You"
			style = v.styles.Header
		}
		fmt.Fprintf(v.w, "%s %s\n  %s\n",
			style.Render(who),
			v.styles.Muted.Render(m.CreatedAt),
			m.MessageContent,
		)
	}
}

// Prescriptions prints a table of prescriptions.
func (v *View) Prescriptions(prescriptions []api.Prescription, viewer api.Role) {
	if len(prescriptions) == 0 {
		fmt.Fprintln(v.w, v.styles.Muted.Render("No prescriptions."))
		return
	}

	with := "Doctor"
	if viewer == api.RoleDoctor {
		with = "Patient"
	}

	tbl := v.newTable("ID", with, "Status", "Medications", "Created")
	for _, p := range prescriptions {
		name := p.DoctorName
		if viewer == api.RoleDoctor {
			name = p.ClientName
		}
		tbl.Row(
			fmt.Sprintf("%d", p.ID),
			name,
			v.styles.statusStyle(p.Status).Render(p.Status),
			fmt.Sprintf("%d", len(p.Medications)),
			p.CreatedAt,
		)
	}
	fmt.Fprintln(v.w, tbl)
}

// PrescriptionDetail prints one prescription with its medication lines.
func (v *View) PrescriptionDetail(p *api.Prescription) {
	fmt.Fprintln(v.w, v.styles.Title.Render(fmt.Sprintf("Prescription #%d", p.ID)))
	v.field("Doctor", p.DoctorName)
	v.field("Patient", p.ClientName)
	fmt.Fprintf(v.w, "%s %s\n", v.styles.Label.Render("Status:"), v.styles.statusStyle(p.Status).Render(p.Status))
	v.field("Notes", p.Notes)

	if len(p.Medications) > 0 {
		tbl := v.newTable("Medication", "Dosage", "Frequency", "Duration")
		for _, m := range p.Medications {
			tbl.Row(m.Medication, m.Dosage, m.Frequency, m.Duration)
		}
		fmt.Fprintln(v.w, tbl)
	}
}

// MedicalRecord prints a patient's record with its sub-lists.
func (v *View) MedicalRecord(record *api.MedicalRecord) {
	fmt.Fprintln(v.w, v.styles.Title.Render("Medical record"))
	v.field("Blood type", record.BloodType)
	if record.Height > 0 {
		v.field("Height", fmt.Sprintf("%.0f cm", record.Height))
	}
	if record.Weight > 0 {
		v.field("Weight", fmt.Sprintf("%.1f kg", record.Weight))
	}
	v.field("Notes", record.Notes)

	if len(record.Allergies) > 0 {
		fmt.Fprintln(v.w, v.styles.Header.Render("Allergies"))
		for _, a := range record.Allergies {
			line := a.Name
			if a.Severity != "" {
				line += " (" + a.Severity + ")"
			}
			fmt.Fprintf(v.w, "  - %s\n", line)
		}
	}

	if len(record.Conditions) > 0 {
		fmt.Fprintln(v.w, v.styles.Header.Render("Conditions"))
		for _, c := range record.Conditions {
			line := c.Name
			if c.Status != "" {
				line += " (" + c.Status + ")"
			}
			fmt.Fprintf(v.w, "  - %s\n", line)
		}
	}

	if len(record.Consultations) > 0 {
		tbl := v.newTable("Date", "Type", "Doctor", "Diagnosis")
		for _, c := range record.Consultations {
			tbl.Row(c.Date, c.Type, c.DoctorName, truncate(c.Diagnosis, 40))
		}
		fmt.Fprintln(v.w, tbl)
	}
}

// Notifications prints the notification feed.
func (v *View) Notifications(notifications []api.Notification) {
	if len(notifications) == 0 {
		fmt.Fprintln(v.w, v.styles.Muted.Render("No notifications."))
		return
	}
	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = v.styles.Unread.Render("*")
		}
		fmt.Fprintf(v.w, "%s %s %s\n  %s\n",
			marker,
			v.styles.Muted.Render(n.CreatedAt),
			v.styles.Label.Render("["+n.Type+"]"),
			n.Content,
		)
	}
}

// Success prints a confirmation line.
func (v *View) Success(msg string) {
	fmt.Fprintln(v.w, v.styles.Success.Render("✓ ")+msg)
}

// Info prints a muted informational line.
func (v *View) Info(msg string) {
	fmt.Fprintln(v.w, v.styles.Muted.Render(msg))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
