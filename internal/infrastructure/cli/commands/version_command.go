package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/diarisk/internal/version"
)

// BuildInfo is the build metadata printed by `diarisk version`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// CurrentBuildInfo reads the ldflags-injected values, marking unset ones.
func CurrentBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   orUnknown(version.Version),
		Commit:    orUnknown(version.Commit),
		BuildDate: orUnknown(version.BuildDate),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show diarisk build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := CurrentBuildInfo()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			writeBuildInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}

func writeBuildInfo(out io.Writer, info BuildInfo) {
	fmt.Fprintf(out, "diarisk version %s\n", info.Version)
	fmt.Fprintf(out, "  commit:   %s\n", info.Commit)
	fmt.Fprintf(out, "  built:    %s\n", info.BuildDate)
	fmt.Fprintf(out, "  go:       %s (%s)\n", info.GoVersion, info.Platform)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
