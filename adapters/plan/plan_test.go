package plan

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"escrow-charge/core/types"
	"escrow-charge/internal/errors"
)

func TestParseFile(t *testing.T) {
	projects, err := ParseFile("testdata/logo.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}

	logo := projects[0]
	if logo.ID != "logo-redesign" {
		t.Errorf("Expected logo-redesign, got %s", logo.ID)
	}
	if !logo.Budget.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Expected budget 30000, got %s", logo.Budget)
	}
	if logo.Currency != types.CurrencyUSD {
		t.Errorf("Expected USD, got %s", logo.Currency)
	}
	if len(logo.Milestones) != 2 {
		t.Fatalf("Expected 2 milestones, got %d", len(logo.Milestones))
	}
	if logo.Milestones[0].Title != "Initial sketches" {
		t.Errorf("Expected title, got %q", logo.Milestones[0].Title)
	}
	if logo.Milestones[1].Line != 11 {
		t.Errorf("Expected milestone line 11, got %d", logo.Milestones[1].Line)
	}
}

func TestParseKeepsDecimalPrecision(t *testing.T) {
	src := `
project "p" {
  budget = 4999.99
  milestone "m" {
    amount = 0.1
  }
}
`
	projects, err := Parse([]byte(src), "inline.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if !projects[0].Budget.Equal(decimal.RequireFromString("4999.99")) {
		t.Errorf("Expected 4999.99, got %s", projects[0].Budget)
	}
	if projects[0].Milestones[0].Amount.String() != "0.1" {
		t.Errorf("Expected 0.1, got %s", projects[0].Milestones[0].Amount)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		typ  errors.Type
	}{
		{"syntax", `project "p" {`, errors.TypeParsing},
		{"missing budget", `project "p" {}`, errors.TypeParsing},
		{"string budget", `project "p" { budget = "lots" }`, errors.TypeInvalidBudget},
		{"variable amount", `project "p" {
  budget = 10
  milestone "m" { amount = var.x }
}`, errors.TypeInvalidAmount},
		{"huge budget exponent", `project "p" { budget = 1e100000000 }`, errors.TypeInvalidBudget},
		{"tiny amount exponent", `project "p" {
  budget = 10
  milestone "m" { amount = 1e-100000000 }
}`, errors.TypeInvalidAmount},
		{"bad currency", `project "p" {
  budget   = 10
  currency = "DOGE"
}`, errors.TypeParsing},
		{"duplicate milestone", `project "p" {
  budget = 10
  milestone "m" { amount = 1 }
  milestone "m" { amount = 2 }
}`, errors.TypeParsing},
		{"duplicate project", `project "p" { budget = 1 }
project "p" { budget = 2 }`, errors.TypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.IsType(err, tt.typ) {
				t.Errorf("Expected %s, got %v", tt.typ, err)
			}
		})
	}
}

func TestParseErrorMentionsLocation(t *testing.T) {
	_, err := Parse([]byte("project \"p\" {\n  budget = \n}"), "broken.hcl")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "broken.hcl:") {
		t.Errorf("Expected file location in %q", err.Error())
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/nope.hcl")
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("Expected INPUT_ERROR, got %v", err)
	}
}
