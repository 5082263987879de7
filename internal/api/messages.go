package api

import (
	"context"
	"fmt"
	"net/url"
)

// Message is one message between a doctor and a client.
type Message struct {
	ID             int64  `json:"id"`
	SenderID       int64  `json:"sender_id"`
	SenderType     Role   `json:"sender_type"`
	ReceiverID     int64  `json:"receiver_id"`
	ReceiverType   Role   `json:"receiver_type"`
	MessageContent string `json:"message_content"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"created_at"`
}

// Conversation summarizes a doctor/client message thread.
type Conversation struct {
	DoctorID        int64  `json:"id_doc"`
	DoctorName      string `json:"doctor_name,omitempty"`
	DoctorSpecialty string `json:"doctor_speciality,omitempty"`
	ClientID        int64  `json:"id_clt"`
	ClientName      string `json:"client_name,omitempty"`
	LastMessage     string `json:"last_message"`
	LastMessageDate string `json:"last_message_date"`
	UnreadCount     int    `json:"unread_count"`
}

// Conversation fetches the full thread between a doctor and a client.
func (c *Client) Conversation(ctx context.Context, doctorID, clientID int64) ([]Message, error) {
	var messages []Message
	path := fmt.Sprintf("/messages/doctor/%d/client/%d", doctorID, clientID)
	if err := c.get(ctx, path, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DoctorConversations lists a doctor's threads.
func (c *Client) DoctorConversations(ctx context.Context, doctorID int64) ([]Conversation, error) {
	var conversations []Conversation
	path := fmt.Sprintf("/messages/doctor/%d/conversations", doctorID)
	if err := c.get(ctx, path, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ClientConversations lists a client's threads.
func (c *Client) ClientConversations(ctx context.Context, clientID int64) ([]Conversation, error) {
	var conversations []Conversation
	path := fmt.Sprintf("/messages/client/%d/conversations", clientID)
	if err := c.get(ctx, path, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

type sendMessageRequest struct {
	ReceiverID     int64  `json:"receiverId"`
	ReceiverType   Role   `json:"receiverType"`
	MessageContent string `json:"messageContent"`
}

// SendMessage sends a message to the given doctor or client.
func (c *Client) SendMessage(ctx context.Context, receiverID int64, receiverType Role, content string) (*Message, error) {
	req := sendMessageRequest{
		ReceiverID:     receiverID,
		ReceiverType:   receiverType,
		MessageContent: content,
	}
	var message Message
	if err := c.post(ctx, "/messages/send", req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// UnreadCount returns the number of unread messages for the account.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/messages/unread", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks every message from the given sender as read.
func (c *Client) MarkRead(ctx context.Context, senderID int64, senderType Role) error {
	body := map[string]any{"senderId": senderID, "senderType": senderType}
	return c.put(ctx, "/messages/read", body, nil)
}

// DeleteMessage removes a single message.
func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/messages/%d", id))
}

// SearchMessages full-text searches the account's messages.
func (c *Client) SearchMessages(ctx context.Context, query string) ([]Message, error) {
	var messages []Message
	path := "/messages/search?query=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
