package cmd

import (
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Version returns a `version` command to be added to any cobra (root) command.
func Version(name string) *cobra.Command {
	name = strings.TrimSpace(name)

	short := "Print version"
	if name != "" {
		short = "Print " + name + " version"
	}

	return &cobra.Command{
		Use:                   "version",
		Short:                 short,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			info := readBuildInfo()

			prefix := "version"
			if name != "" {
				prefix = name + " version"
			}

			printf(cmd.OutOrStdout(), "%s: %s from %s (%s)\n", prefix, info.revision, info.time, info.goVersion)
		},
	}
}

type buildInfo struct {
	revision  string
	time      string
	goVersion string
}

// readBuildInfo returns the last commit of the binary.
// `go run` and `go test` do not contain that info, neither do builds with uncommitted code,
// so they report @latest and the current time.
func readBuildInfo() buildInfo {
	info := buildInfo{goVersion: runtime.Version()}
	modified := false

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.revision = setting.Value
			case "vcs.time":
				info.time = setting.Value
			case "vcs.modified":
				modified = setting.Value == "true"
			}
		}
	}

	if modified || info.revision == "" {
		info.revision = "@latest"
		info.time = time.Now().UTC().Format(time.RFC3339)
	}

	return info
}
