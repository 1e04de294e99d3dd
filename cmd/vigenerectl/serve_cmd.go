package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RowanDark/vigenere/internal/api"
	"github.com/RowanDark/vigenere/internal/logging"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			rm, err := recipeManager(cfg)
			if err != nil {
				return err
			}

			opts := []logging.Option{}
			if cfg.AuditLog != "" {
				opts = append(opts, logging.WithFile(cfg.AuditLog))
			}
			logger, err := logging.NewAuditLogger(productName, opts...)
			if err != nil {
				return err
			}
			defer logger.Close()

			server, err := api.NewServer(api.Config{
				Addr:    cfg.ServerAddr,
				Direct:  cfg.Direct,
				Recipes: rm,
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "serving on %s\n", cfg.ServerAddr)
			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server_addr)")
	return cmd
}
