package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/strtime"
)

var diffCmd = &cobra.Command{
	Use:   "diff <datetime> <datetime>",
	Short: "Show the delta and the calculated interval between two datetimes",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func parseDateTime(s string) (civil.DateTime, error) {
	dt, err := strtime.Parse(s, "$iso")
	if err == nil {
		return dt, nil
	}
	return strtime.Parse(s, "%Y-%m-%d")
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := parseDateTime(args[0])
	if err != nil {
		return err
	}
	b, err := parseDateTime(args[1])
	if err != nil {
		return err
	}

	d := b.Sub(a)
	fmt.Printf("delta: %dd %dh %dm %ds\n", d.Days, d.Seconds/3600, d.Seconds%3600/60, d.Seconds%60)

	iv := civil.IntervalBetween(a, b)
	fmt.Printf("interval: %gy %gmo %gd %gh %gm %gs\n",
		iv.Years, iv.Months, iv.Days, iv.Hours, iv.Minutes, iv.Seconds)
	return nil
}
