package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/valuation"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the current value of fixed income assets" }
func (*valueCmd) Usage() string {
	return `rwa value [-d <YYYY-MM-DD>] <state.json>

  Displays the interpolated current value of each fixed income asset.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", time.Now().UTC().Format("2006-01-02"), "valuation date")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one state file is required")
		return subcommands.ExitUsageError
	}
	on, err := time.Parse("2006-01-02", c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	state, err := readState(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(valueMarkdown(on, valuation.CurrentValues(state, on)))
	return subcommands.ExitSuccess
}

func valueMarkdown(on time.Time, values []models.AssetValue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Current values on %s\n\n", on.Format("2006-01-02"))
	b.WriteString("| Asset | Name | Current value |\n")
	b.WriteString("|:---|:---|---:|\n")
	for _, v := range values {
		value := "n/a"
		if v.CurrentValue != nil {
			value = formatUSD(*v.CurrentValue)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", v.AssetID, v.Name, value)
	}
	return b.String()
}
