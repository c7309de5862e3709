package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/farellandr/clubhub/internal/rollno"
	"github.com/spf13/cobra"
)

var rollnoCmd = &cobra.Command{
	Use:   "rollno [roll number]...",
	Short: "Check roll numbers and show their branch and academic year",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if list, _ := cmd.Flags().GetBool("branches"); list {
			printBranches(w)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("no roll number given")
		}

		now := time.Now()
		invalid := 0
		for _, arg := range args {
			number, err := rollno.Parse(arg)
			if err != nil {
				fmt.Fprintln(w, err)
				invalid++
				continue
			}
			fmt.Fprintf(w, "%s  %s  enrolled %d  %s\n", number, number.Branch.Name, number.Year, yearLabel(number, now))
		}
		if invalid > 0 {
			return fmt.Errorf("%d of %d roll numbers are invalid", invalid, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollnoCmd)
	rollnoCmd.Flags().Bool("branches", false, "list the known branch codes")
}

func yearLabel(n rollno.Number, now time.Time) string {
	if n.IsAlumnus(now) {
		return "alumnus"
	}
	return fmt.Sprintf("year %d of %d", n.AcademicYear(now), n.Branch.Years)
}

func printBranches(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tBRANCH\tYEARS")
	for _, b := range rollno.Branches() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Code, b.Name, b.Years)
	}
	tw.Flush()
}
