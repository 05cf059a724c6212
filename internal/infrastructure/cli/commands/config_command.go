package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	configapp "github.com/doeshing/diarisk/internal/application/config"
	"github.com/doeshing/diarisk/internal/domain"
	configinfra "github.com/doeshing/diarisk/internal/infrastructure/config"
)

const (
	envKeyEditor                = "EDITOR"
	defaultEditor               = "vi"
	msgConfigurationValid       = "Configuration valid"
	msgNoDifferencesFromDefault = "No differences from default configuration."
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(loader *Loader) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect diarisk configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), loader)
		},
	}

	configCmd.AddCommand(
		newConfigInitCommand(loader),
		newConfigShowCommand(loader),
		newConfigGetCommand(loader),
		newConfigPathCommand(loader),
		newConfigEditCommand(loader),
		newConfigValidateCommand(loader),
		newConfigDiffCommand(loader),
	)

	return configCmd
}

// newConfigInitCommand creates the 'config init' subcommand
func newConfigInitCommand(loader *Loader) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(loader)
			if err := configinfra.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration (credential redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), loader)
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value (e.g. model.model_id)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), loader, args[0])
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configPath(loader))
			return nil
		},
	}
}

// newConfigEditCommand creates the 'config edit' subcommand
func newConfigEditCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(configPath(loader))
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loader.Container(cmd.Context())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			result := configapp.Validate(container.Config)
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "[WARN] %s\n", warning)
			}
			for _, verr := range result.Errors {
				fmt.Fprintf(out, "[ERROR] %s\n", verr)
			}
			if !result.OK() {
				return fmt.Errorf("configuration validation failed: %d error(s)", len(result.Errors))
			}
			fmt.Fprintln(out, msgConfigurationValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(loader *Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), loader)
		},
	}
}

// showConfiguration displays the effective configuration in YAML format
func showConfiguration(ctx context.Context, out io.Writer, loader *Loader) error {
	container, err := loader.Container(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := container.Config.Redacted()

	data, err := configinfra.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprintf(out, "# file: %s\n", cfg.Path)
	if cfg.HasCredential() {
		fmt.Fprintf(out, "# credential: %s (from %s)\n", cfg.Credential, cfg.GetCredentialName())
	} else {
		fmt.Fprintf(out, "# credential: missing (%s not set)\n", cfg.GetCredentialName())
	}
	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(ctx context.Context, out io.Writer, loader *Loader, keyPath string) error {
	container, err := loader.Container(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	genericMap, err := convertConfigToGenericMap(container.Config)
	if err != nil {
		return err
	}

	value, found := traverseNestedMap(genericMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := configinfra.WriteDefault(path, false); err != nil {
			return err
		}
	}

	editorCommand := getEditorCommand()
	cmd := exec.Command(editorCommand, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}

	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, loader *Loader) error {
	container, err := loader.Container(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}
	diff := cmp.Diff(withoutResolved(defaultConfig), withoutResolved(container.Config))

	if diff == "" {
		fmt.Fprintln(out, msgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// Helper functions

// withoutResolved drops the fields resolved at load time.
func withoutResolved(cfg domain.Config) domain.Config {
	cfg.Credential = ""
	cfg.CredentialSource = ""
	cfg.Path = ""
	return cfg
}

func configPath(loader *Loader) string {
	return configinfra.NewFileLoader(loader.Options.ConfigPath).Path()
}

// getEditorCommand retrieves the editor command from environment or returns default
func getEditorCommand() string {
	if editor := os.Getenv(envKeyEditor); editor != "" {
		return editor
	}
	return defaultEditor
}

// convertConfigToGenericMap converts domain.Config to a generic map keyed like the YAML file
func convertConfigToGenericMap(cfg domain.Config) (interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to generic map: %w", err)
	}

	return generic, nil
}

// traverseNestedMap walks maps by key and slices by numeric index.
func traverseNestedMap(node interface{}, keys []string) (interface{}, bool) {
	current := node
	for _, key := range keys {
		switch typed := current.(type) {
		case map[string]interface{}:
			next, ok := typed[key]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
