package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
)

func newOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tREVERSIBLE\tDESCRIPTION")
			for _, op := range cipher.ListOperations() {
				_, reversible := op.Reverse()
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", op.Name(), op.Type(), reversible, op.Description())
			}
			return tw.Flush()
		},
	}
}

func newPipelineCommand(flags *globalFlags) *cobra.Command {
	var (
		specs  []string
		invert bool
	)
	cmd := &cobra.Command{
		Use:   "pipeline [input...]",
		Short: "Run a chain of operations, e.g. --op vigenere_encrypt:key=lemon --op reverse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ops, err := parseOpSpecs(specs)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			pipeline := &cipher.Pipeline{Operations: ops, Reversible: invert}
			if invert {
				if pipeline, err = pipeline.Reverse(); err != nil {
					return err
				}
			}

			logger, err := auditLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			out, err := pipeline.Execute(cmd.Context(), []byte(input))
			event := logging.AuditEvent{
				EventType: logging.EventPipelineRun,
				Decision:  logging.DecisionAllow,
				Metadata:  map[string]any{"steps": len(pipeline.Operations), "inverted": invert},
			}
			if err != nil {
				event.Decision = logging.DecisionDeny
				event.Reason = cipher.FailureReason(err)
			}
			_ = logger.Emit(event)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&specs, "op", nil, "Operation as name[:k=v,...]; repeat to chain")
	cmd.Flags().BoolVar(&invert, "invert", false, "Run the inverse of the pipeline")
	return cmd
}
