package charge

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"escrow-charge/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateServiceChargeScenarios(t *testing.T) {
	tests := []struct {
		amount, budget string
		percentage     int64
		charge, total  string
	}{
		{"1500", "3000", 8, "120", "1620"},
		{"5000", "10000", 6, "300", "5300"},
		{"10000", "30000", 5, "500", "10500"},
		{"25000", "75000", 4, "1000", "26000"},
		{"50000", "150000", 3, "1500", "51500"},
	}

	for _, tt := range tests {
		b, err := CalculateServiceCharge(d(tt.amount), d(tt.budget))
		if err != nil {
			t.Fatalf("CalculateServiceCharge(%s, %s): %v", tt.amount, tt.budget, err)
		}
		if b.Percentage != tt.percentage {
			t.Errorf("(%s, %s) percentage = %d, want %d", tt.amount, tt.budget, b.Percentage, tt.percentage)
		}
		if !b.ServiceCharge.Equal(d(tt.charge)) {
			t.Errorf("(%s, %s) service charge = %s, want %s", tt.amount, tt.budget, b.ServiceCharge, tt.charge)
		}
		if !b.TotalAmount.Equal(d(tt.total)) {
			t.Errorf("(%s, %s) total = %s, want %s", tt.amount, tt.budget, b.TotalAmount, tt.total)
		}
		if !b.ProjectBudget.Equal(d(tt.budget)) || !b.MilestoneAmount.Equal(d(tt.amount)) {
			t.Errorf("(%s, %s) inputs not echoed: %+v", tt.amount, tt.budget, b)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		budget string
		want   int64
	}{
		{"0", 8},
		{"4999.99", 8},
		{"5000", 6},
		{"19999.999", 6},
		{"20000", 5},
		{"49999", 5},
		{"50000", 4},
		{"99999.99", 4},
		{"100000", 3},
		{"100000000000", 3},
	}

	for _, tt := range tests {
		b, err := CalculateServiceCharge(d("100"), d(tt.budget))
		if err != nil {
			t.Fatalf("budget %s: %v", tt.budget, err)
		}
		if b.Percentage != tt.want {
			t.Errorf("budget %s: percentage = %d, want %d", tt.budget, b.Percentage, tt.want)
		}
	}
}

func TestTotalsAreExact(t *testing.T) {
	amounts := []string{"0", "0.01", "0.1", "33.33", "1234.567", "999999.99", "7"}
	budgets := []string{"1", "5000", "25000.5", "60000", "250000"}

	for _, a := range amounts {
		for _, bud := range budgets {
			b, err := CalculateServiceCharge(d(a), d(bud))
			if err != nil {
				t.Fatalf("(%s, %s): %v", a, bud, err)
			}
			if !b.TotalAmount.Equal(b.MilestoneAmount.Add(b.ServiceCharge)) {
				t.Errorf("(%s, %s): total %s != amount + charge %s", a, bud, b.TotalAmount, b.MilestoneAmount.Add(b.ServiceCharge))
			}
			if !b.AmountToFreelancer.Equal(b.MilestoneAmount) {
				t.Errorf("(%s, %s): freelancer receives %s, want %s", a, bud, b.AmountToFreelancer, b.MilestoneAmount)
			}
		}
	}
}

func TestFractionalChargeIsNotTruncated(t *testing.T) {
	b, err := CalculateServiceCharge(d("33.33"), d("1000"))
	if err != nil {
		t.Fatal(err)
	}
	if !b.ServiceCharge.Equal(d("2.6664")) {
		t.Errorf("Expected 2.6664, got %s", b.ServiceCharge)
	}
}

func TestZeroAmount(t *testing.T) {
	b, err := CalculateServiceCharge(decimal.Zero, d("10"))
	if err != nil {
		t.Fatal(err)
	}
	if !b.ServiceCharge.IsZero() || !b.TotalAmount.IsZero() {
		t.Errorf("Expected zero charge and total, got %s and %s", b.ServiceCharge, b.TotalAmount)
	}
}

func TestNegativeInputsRejected(t *testing.T) {
	_, err := CalculateServiceCharge(d("-1"), d("1000"))
	if !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("Expected INVALID_AMOUNT, got %v", err)
	}

	_, err = CalculateServiceCharge(d("1"), d("-0.01"))
	if !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET, got %v", err)
	}

	// amount is validated first
	_, err = CalculateServiceCharge(d("-1"), d("-1"))
	if !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("Expected INVALID_AMOUNT when both are negative, got %v", err)
	}
}

func TestCalculateFloatInputs(t *testing.T) {
	calc := Default()

	if _, err := calc.calculateFloat(math.NaN(), 100); !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("NaN amount: expected INVALID_AMOUNT, got %v", err)
	}
	if _, err := calc.calculateFloat(math.Inf(1), 100); !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("+Inf amount: expected INVALID_AMOUNT, got %v", err)
	}
	if _, err := calc.calculateFloat(100, math.Inf(-1)); !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("-Inf budget: expected INVALID_BUDGET, got %v", err)
	}

	b, err := calc.calculateFloat(1500, 3000)
	if err != nil {
		t.Fatal(err)
	}
	if !b.TotalAmount.Equal(d("1620")) {
		t.Errorf("Expected 1620, got %s", b.TotalAmount)
	}
}

func TestParseRejectsNonNumeric(t *testing.T) {
	if _, err := ParseAmount("ten"); !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("Expected INVALID_AMOUNT, got %v", err)
	}
	if _, err := ParseBudget(""); !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET, got %v", err)
	}
	v, err := ParseAmount(" 1500.50 ")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(d("1500.5")) {
		t.Errorf("Expected 1500.5, got %s", v)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"huge positive exponent", "1e100000000"},
		{"huge negative exponent", "1e-100000000"},
		{"exponent just over limit", "1e33"},
		{"too many digits", "1234567890123456789012345678901"},
		{"too many decimals", "0.000000000000000000000000000000001"},
		{"long text", "1" + strings.Repeat("0", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAmount(tt.input); !errors.IsType(err, errors.TypeInvalidAmount) {
				t.Errorf("ParseAmount(%q): expected INVALID_AMOUNT, got %v", tt.input, err)
			}
			if _, err := ParseBudget(tt.input); !errors.IsType(err, errors.TypeInvalidBudget) {
				t.Errorf("ParseBudget(%q): expected INVALID_BUDGET, got %v", tt.input, err)
			}
		})
	}

	for _, ok := range []string{"1.5e3", "1e32", "123456789012345678901234567890", "-0.01"} {
		if _, err := ParseBudget(ok); err != nil {
			t.Errorf("ParseBudget(%q): unexpected error %v", ok, err)
		}
	}
}

func TestCalculateRejectsOutOfRange(t *testing.T) {
	huge := decimal.New(1, 100000000)
	tiny := decimal.New(1, -100000000)

	if _, err := CalculateServiceCharge(d("100"), huge); !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET for huge budget, got %v", err)
	}
	if _, err := CalculateServiceCharge(d("100"), tiny); !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET for tiny budget, got %v", err)
	}
	if _, err := CalculateServiceCharge(huge, d("100")); !errors.IsType(err, errors.TypeInvalidAmount) {
		t.Errorf("Expected INVALID_AMOUNT for huge amount, got %v", err)
	}
	if _, err := Default().QuoteProject("p", "", huge, nil); !errors.IsType(err, errors.TypeInvalidBudget) {
		t.Errorf("Expected INVALID_BUDGET for huge project budget, got %v", err)
	}
}

func TestCalculateIsIdempotentAndConcurrent(t *testing.T) {
	first, err := CalculateServiceCharge(d("1234.56"), d("42000"))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]Breakdown, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = CalculateServiceCharge(d("1234.56"), d("42000"))
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.Percentage != first.Percentage || !r.TotalAmount.Equal(first.TotalAmount) || !r.ServiceCharge.Equal(first.ServiceCharge) {
			t.Errorf("result %d differs: %+v vs %+v", i, r, first)
		}
	}
}
