package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/ngrash/go-cal/tzif"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <tzif-file>",
	Short: "Decode and validate a TZif zone file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := tzif.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	if err := tzif.Validate(d); err != nil {
		return fmt.Errorf("validating %s: %w", args[0], err)
	}

	switch inspectFormat {
	case "yaml":
		out, err := yaml.Marshal(d)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "text":
		printData(d)
	default:
		return fmt.Errorf("unknown format %q", inspectFormat)
	}
	return nil
}

func printData(d tzif.Data) {
	fmt.Println("Version:", d.Version)
	b := d.Block()
	fmt.Println("Transitions:", len(b.TransitionTimes))
	fmt.Println("Leap seconds:", len(b.LeapSeconds))
	fmt.Println("Types:")
	for i, t := range b.Types {
		dst := "std"
		if t.DST {
			dst = "dst"
		}
		fmt.Printf("  %d: %s %s utoff=%d\n", i, t.Abbrev, dst, t.UTOff)
	}
	if d.Footer != "" {
		fmt.Println("Footer:", d.Footer)
	}
}
