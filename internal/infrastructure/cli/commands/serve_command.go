package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/diarisk/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand(loader *Loader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the risk form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loader.Container(cmd.Context())
			if err != nil {
				return err
			}
			cfg := container.Config
			if addr == "" {
				addr = cfg.GetServerAddr()
			}

			srv, err := server.New(container.PredictionService, container.Logger, server.Options{
				Addr:           addr,
				AllowedOrigins: cfg.GetAllowedOrigins(),
				MaxBodyBytes:   cfg.GetMaxBodyBytes(),
				Mode:           cfg.Server.Mode,
				RequestTimeout: cfg.GetRequestTimeout(),
				CredentialName: cfg.GetCredentialName(),
				Ready:          cfg.HasCredential(),
				ModelID:        cfg.Model.ModelID,
			})
			if err != nil {
				return err
			}
			if !cfg.HasCredential() {
				container.Logger.Warn("credential missing; explanations will return a configuration message", map[string]interface{}{
					"credential": cfg.GetCredentialName(),
				})
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
