package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the registered platforms",
	RunE:  runPlatforms,
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCHECK")
	for _, id := range reg.IDs() {
		a, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID(), a.Name(), a.CheckMethod())
	}
	return w.Flush()
}
