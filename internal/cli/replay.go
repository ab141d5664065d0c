package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/tropicaldog17/rwa/internal/ledger"
	"github.com/tropicaldog17/rwa/internal/models"
)

// replayCmd holds the flags for the 'replay' subcommand.
type replayCmd struct {
	init     string
	lender   string
	out      string
	failFast bool
}

func (*replayCmd) Name() string     { return "replay" }
func (*replayCmd) Synopsis() string { return "apply a JSONL operation log to a state" }
func (*replayCmd) Usage() string {
	return `rwa replay [-init <state.json>] [-lender <account id>] [-o <out.json>] [-fail-fast] <operations.jsonl>

  Applies each {"type": ..., "input": ...} line in order and prints the cash
  balance after every operation. Rejected operations leave the state as is.
`
}

func (c *replayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.init, "init", "", "initial state file; an empty state when omitted")
	f.StringVar(&c.lender, "lender", "", "principal lender account id of the empty initial state")
	f.StringVar(&c.out, "o", "", "write the final state to this file")
	f.BoolVar(&c.failFast, "fail-fast", false, "stop at the first rejected operation")
}

func (c *replayCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one operation log is required")
		return subcommands.ExitUsageError
	}

	state := models.NewState(c.lender)
	if c.init != "" {
		var err error
		if state, err = readState(c.init); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening operation log: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	final, steps, err := replay(state, file, c.failFast)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading operation log: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(replayMarkdown(steps))

	if c.out != "" {
		if err := writeState(c.out, final); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing state: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	for _, s := range steps {
		if s.Err != nil {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// replayStep is the outcome of one logged operation.
type replayStep struct {
	Line        int
	Type        models.OperationType
	Err         error
	CashBalance decimal.Decimal
	Change      decimal.Decimal
}

// replay applies every operation read from r. A line that is not an
// operation aborts the replay; a rejected operation is recorded and skipped.
func replay(state models.State, r io.Reader, failFast bool) (models.State, []replayStep, error) {
	var steps []replayStep
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var op models.Operation
		if err := json.Unmarshal([]byte(text), &op); err != nil {
			return state, steps, fmt.Errorf("line %d: %w", line, err)
		}

		before := cashBalance(state)
		next, err := ledger.Apply(state, op)
		step := replayStep{Line: line, Type: op.Type, Err: err}
		if err == nil {
			state = next
		}
		step.CashBalance = cashBalance(state)
		step.Change = step.CashBalance.Sub(before)
		steps = append(steps, step)

		if err != nil && failFast {
			break
		}
	}
	return state, steps, scanner.Err()
}

func cashBalance(s models.State) decimal.Decimal {
	if cash, _ := s.CashAsset(); cash != nil {
		return cash.Balance
	}
	return decimal.Zero
}

func replayMarkdown(steps []replayStep) string {
	var b strings.Builder
	b.WriteString("# Replay\n\n")
	b.WriteString("| Line | Operation | Result | Change | Cash balance |\n")
	b.WriteString("|---:|:---|:---|---:|---:|\n")
	applied := 0
	for _, s := range steps {
		result := "applied"
		if s.Err != nil {
			result = "rejected: " + strings.ReplaceAll(s.Err.Error(), "|", "\\|")
		} else {
			applied++
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			s.Line, s.Type, result, formatUSD(s.Change), formatUSD(s.CashBalance))
	}
	fmt.Fprintf(&b, "\n%d of %d operations applied.\n", applied, len(steps))
	return b.String()
}
