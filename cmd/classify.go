package cmd

import (
	"strings"

	"github.com/huangsam/commitpulse/core"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// classifyCmd classifies a single commit message without touching any repository.
var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Classify a single commit message.",
	Long: `Classify one commit message into a type and report whether it is breaking,
security related or performance related. Changed paths refine the verdict
when the message carries no type keyword.

Examples:
  commitpulse classify "feat: add login page"
  commitpulse classify "update fixtures" --files internal/a_test.go,internal/b_test.go
  commitpulse classify "security: rotate signing keys" --output json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// No repository is involved, so positional args are not repos
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		var files []string
		for f := range strings.SplitSeq(viper.GetString("files"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		if err := core.ExecuteClassify(rootCtx, cfg, args[0], files); err != nil {
			contract.LogFatal("Cannot classify commit", err)
		}
	},
}
