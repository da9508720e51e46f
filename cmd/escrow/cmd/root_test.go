package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"escrow-charge/internal/errors"
)

// run executes the root command with flags reset to their defaults
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	resetSet := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset := func(c *cobra.Command) {
		resetSet(c.Flags())
		resetSet(c.PersistentFlags())
	}
	reset(rootCmd)
	for _, c := range rootCmd.Commands() {
		reset(c)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestChargeCommand(t *testing.T) {
	out, err := run(t, "charge", "--amount", "1500", "--budget", "3000")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Service charge (8%)", "120.00 USD", "1,620.00 USD"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}

func TestChargeCommandJSON(t *testing.T) {
	out, err := run(t, "charge", "-a", "25000", "-b", "75000", "--format", "json", "--currency", "gbp")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got["percentage"] != float64(4) || got["totalAmount"] != float64(26000) || got["currency"] != "GBP" {
		t.Errorf("unexpected breakdown %v", got)
	}
}

func TestChargeCommandRejectsBadInput(t *testing.T) {
	_, err := run(t, "charge", "--amount", "-10", "--budget", "3000")
	if !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("Expected INVALID_AMOUNT, got %v", err)
	}

	_, err = run(t, "charge", "--amount", "10", "--budget", "lots")
	if !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET, got %v", err)
	}

	_, err = run(t, "charge", "--amount", "10", "--budget", "1e100000000")
	if !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET for huge exponent, got %v", err)
	}

	if _, err := run(t, "charge", "--amount", "10"); err == nil {
		t.Error("Expected error when --budget is missing")
	}
}

func TestTiersCommand(t *testing.T) {
	out, err := run(t, "tiers")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "BUDGET FROM") || !strings.Contains(out, "100,000.00") {
		t.Errorf("unexpected tiers output:\n%s", out)
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := run(t, "plan", "testdata/plan.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Project logo-redesign") || !strings.Contains(out, "31,500.00") {
		t.Errorf("unexpected plan output:\n%s", out)
	}

	if _, err := run(t, "plan", "testdata/missing.hcl"); err == nil {
		t.Error("Expected error for missing plan")
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := run(t, "tiers", "--format", "yaml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "escrow version ") {
		t.Errorf("unexpected version output %q", out)
	}
}
