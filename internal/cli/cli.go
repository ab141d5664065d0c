// Package cli holds the rwa command line subcommands. They work on state
// files and JSONL operation logs directly and never touch the database.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/tropicaldog17/rwa/internal/models"
)

// Commands are registered by cmd/rwa.
var Commands = []subcommands.Command{
	&replayCmd{},
	&valueCmd{},
	&checkCmd{},
}

// formatUSD renders d with the USD symbol and thousand separators, rounded
// to cents.
func formatUSD(d decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	cents := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(cents)
}

func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func readState(path string) (models.State, error) {
	var s models.State
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("failed to decode state %s: %w", path, err)
	}
	return s, nil
}

func writeState(path string, s models.State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
