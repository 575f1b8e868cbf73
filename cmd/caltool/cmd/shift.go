package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/strtime"
)

var shiftIv struct {
	years, months, days     float64
	hours, minutes, seconds float64
	sub                     bool
}

var shiftCmd = &cobra.Command{
	Use:   "shift <datetime>",
	Short: "Shift a datetime by a calendar interval",
	Args:  cobra.ExactArgs(1),
	RunE:  runShift,
}

func init() {
	shiftCmd.Flags().Float64Var(&shiftIv.years, "years", 0, "years to add")
	shiftCmd.Flags().Float64Var(&shiftIv.months, "months", 0, "months to add")
	shiftCmd.Flags().Float64Var(&shiftIv.days, "days", 0, "days to add")
	shiftCmd.Flags().Float64Var(&shiftIv.hours, "hours", 0, "hours to add")
	shiftCmd.Flags().Float64Var(&shiftIv.minutes, "minutes", 0, "minutes to add")
	shiftCmd.Flags().Float64Var(&shiftIv.seconds, "seconds", 0, "seconds to add")
	shiftCmd.Flags().BoolVar(&shiftIv.sub, "sub", false, "subtract instead of add")
	rootCmd.AddCommand(shiftCmd)
}

func runShift(cmd *cobra.Command, args []string) error {
	dt, err := parseDateTime(args[0])
	if err != nil {
		return err
	}
	iv := civil.Interval{
		Years: shiftIv.years, Months: shiftIv.months, Days: shiftIv.days,
		Hours: shiftIv.hours, Minutes: shiftIv.minutes, Seconds: shiftIv.seconds,
	}
	var out civil.DateTime
	if shiftIv.sub {
		out = dt.SubInterval(iv)
	} else {
		out = dt.AddInterval(iv)
	}
	s, err := strtime.Format(out, "$iso")
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}
