package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/session"
	"github.com/caresync/caresync/internal/tui"
)

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"msg"},
	Short:   "Message your doctor or patients",
	Long: `Read and send messages.

Examples:
  caresync messages list
  caresync messages send --to 7 --to-role doctor "I need to reschedule"
  caresync messages show --with 7
  caresync messages chat --with 7
  caresync messages unread
  caresync messages search "prescription"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		var conversations []api.Conversation
		if s.User.Role == api.RoleDoctor {
			conversations, err = a.client.DoctorConversations(cmd.Context(), s.User.ID)
		} else {
			conversations, err = a.client.ClientConversations(cmd.Context(), s.User.ID)
		}
		if err != nil {
			return err
		}

		return a.emit(cmd, conversations, func() {
			a.view.Conversations(conversations, s.User.Role)
		})
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		to, _ := cmd.Flags().GetInt64("to")
		toRole, _ := cmd.Flags().GetString("to-role")
		if to == 0 {
			return fmt.Errorf("--to is required")
		}

		receiverType := counterpartRole(s.User.Role)
		if toRole != "" {
			receiverType = api.Role(toRole)
			if !receiverType.Valid() {
				return errors.New(errors.ErrCodeInputRole, "to-role must be doctor or client")
			}
		}

		if _, err := a.client.SendMessage(cmd.Context(), to, receiverType, args[0]); err != nil {
			return err
		}

		a.view.Success("Message sent")
		return nil
	},
}

var messagesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a conversation transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		with, _ := cmd.Flags().GetInt64("with")
		if with == 0 {
			return fmt.Errorf("--with is required")
		}

		doctorID, clientID := with, s.User.ID
		if s.User.Role == api.RoleDoctor {
			doctorID, clientID = s.User.ID, with
		}

		messages, err := a.client.Conversation(cmd.Context(), doctorID, clientID)
		if err != nil {
			return err
		}

		// Reading the transcript clears it from the unread count.
		if err := a.client.MarkRead(cmd.Context(), with, counterpartRole(s.User.Role)); err != nil {
			a.logger.Warn("could not mark conversation read", "error", err)
		}

		return a.emit(cmd, messages, func() {
			if len(messages) == 0 {
				a.view.Info("No messages yet.")
				return
			}
			a.view.Messages(messages, s.User.Role)
		})
	},
}

var messagesChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a live conversation view",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}
		if !tui.IsInteractive() {
			return fmt.Errorf("chat requires an interactive terminal")
		}

		with, _ := cmd.Flags().GetInt64("with")
		if with == 0 {
			return fmt.Errorf("--with is required")
		}

		partner, err := resolvePartner(cmd, a, s, with)
		if err != nil {
			return err
		}

		return tui.RunChat(a.client, s.User.Role, partner)
	},
}

// resolvePartner looks up the counterparty's name and fixes which side
// of the conversation is the doctor.
func resolvePartner(cmd *cobra.Command, a *app, s session.Session, with int64) (tui.ChatPartner, error) {
	if s.User.Role == api.RoleDoctor {
		patient, err := a.client.ClientByID(cmd.Context(), with)
		if err != nil {
			return tui.ChatPartner{}, err
		}
		return tui.ChatPartner{DoctorID: s.User.ID, ClientID: with, Name: patient.DisplayName()}, nil
	}

	doctor, err := a.client.Doctor(cmd.Context(), with)
	if err != nil {
		return tui.ChatPartner{}, err
	}
	return tui.ChatPartner{DoctorID: with, ClientID: s.User.ID, Name: "Dr. " + doctor.Name}, nil
}

var messagesUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread message count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		count, err := a.client.UnreadCount(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, map[string]int{"unread": count}, func() {
			if count == 0 {
				a.view.Info("No unread messages.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d unread message(s)\n", count)
			}
		})
	},
}

var messagesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search your messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		messages, err := a.client.SearchMessages(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return a.emit(cmd, messages, func() {
			if len(messages) == 0 {
				a.view.Info("No matches.")
				return
			}
			a.view.Messages(messages, s.User.Role)
		})
	},
}

func counterpartRole(role api.Role) api.Role {
	if role == api.RoleDoctor {
		return api.RoleClient
	}
	return api.RoleDoctor
}

func init() {
	messagesSendCmd.Flags().Int64("to", 0, "recipient id")
	messagesSendCmd.Flags().String("to-role", "", "recipient type (defaults to the opposite of yours)")
	messagesShowCmd.Flags().Int64("with", 0, "counterparty id")
	messagesChatCmd.Flags().Int64("with", 0, "counterparty id")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesShowCmd)
	messagesCmd.AddCommand(messagesSendCmd)
	messagesCmd.AddCommand(messagesChatCmd)
	messagesCmd.AddCommand(messagesUnreadCmd)
	messagesCmd.AddCommand(messagesSearchCmd)
	rootCmd.AddCommand(messagesCmd)
}
