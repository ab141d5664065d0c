package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tropicaldog17/rwa/internal/ledger"
	"go.uber.org/multierr"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the consistency of a state file" }
func (*checkCmd) Usage() string {
	return `rwa check <state.json>

  Reports every broken invariant: dangling references, duplicate ids,
  stale derived fields and a cash balance that does not match the ledger.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one state file is required")
		return subcommands.ExitUsageError
	}
	state, err := readState(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		return subcommands.ExitFailure
	}

	md, ok := checkMarkdown(ledger.CheckInvariants(state))
	printMarkdown(md)
	if !ok {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func checkMarkdown(err error) (string, bool) {
	if err == nil {
		return "# Check\n\nState is consistent.\n", true
	}
	var b strings.Builder
	errs := multierr.Errors(err)
	fmt.Fprintf(&b, "# Check\n\n%d problem(s) found:\n\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	return b.String(), false
}
