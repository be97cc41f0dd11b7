// Command sandbox-synth renders the data sandbox CloudFormation template.
//
// Usage:
//
//	sandbox-synth synth --format yaml --out sandbox.yaml
//	sandbox-synth synth --appstream_environment_name research --appstream_image_name MyImage
//	sandbox-synth resources
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sandbox-synth",
		Short:         "Render the AppStream data sandbox CloudFormation template",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSynthCmd(), newResourcesCmd())
	return root
}
