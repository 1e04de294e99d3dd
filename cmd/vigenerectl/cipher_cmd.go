package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
	"github.com/RowanDark/vigenere/internal/vigenere"
)

func newCipherCommand(flags *globalFlags, action string) *cobra.Command {
	var (
		key     string
		reverse bool
	)
	cmd := &cobra.Command{
		Use:   action + " [message...]",
		Short: fmt.Sprintf("%s a message (reads stdin when no message is given)", action),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if key == "" {
				key = cfg.Key
			}
			direct := cfg.Direct
			if cmd.Flags().Changed("reverse") {
				direct = !reverse
			}

			message, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			logger, err := auditLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			machine := vigenere.New(direct)
			var (
				out       string
				eventType = logging.EventEncrypt
			)
			if action == "encrypt" {
				out, err = machine.Encrypt(message, key)
			} else {
				eventType = logging.EventDecrypt
				out, err = machine.Decrypt(message, key)
			}

			event := logging.AuditEvent{
				EventType: eventType,
				Decision:  logging.DecisionAllow,
				Metadata:  map[string]any{"direct": direct, "length": len(message)},
			}
			if err != nil {
				event.EventType = logging.EventRejected
				event.Decision = logging.DecisionDeny
				event.Reason = cipher.FailureReason(err)
			}
			_ = logger.Emit(event)

			if err != nil {
				if errors.Is(err, vigenere.ErrInvalidArgument) {
					return usageError{err}
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Cipher key (defaults to the configured key)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Use the reverse machine (output is reversed)")
	return cmd
}
