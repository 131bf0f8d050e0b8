package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionLine(version, buildRevision()))
	},
}

// versionLine formats the version output. revision may be empty.
func versionLine(v, revision string) string {
	line := fmt.Sprintf("futable %s %s %s/%s", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if revision != "" {
		line += " (" + revision + ")"
	}
	return line
}

// buildRevision returns the short VCS revision stamped by the Go
// toolchain, with a "+dirty" suffix for modified trees.
func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "+dirty"
	}
	return rev
}
