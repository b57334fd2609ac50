package classifier

import (
	"testing"

	"github.com/spec-kit/support-router/internal/domain"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text    string
		want    domain.Department
		matched bool
	}{
		{"the website shows an error", domain.DepartmentSupport, true},
		{"My PAYMENT failed twice", domain.DepartmentSupport, true},
		{"where is my delivery", domain.DepartmentSales, true},
		{"I want a refund for this product", domain.DepartmentSales, true},
		// Support keywords win when both sets match.
		{"payment refund question", domain.DepartmentSupport, true},
		{"hello there", "", false},
		{"", "", false},
	}

	for _, tt := range cases {
		got, ok := Detect(tt.text)
		if ok != tt.matched || got != tt.want {
			t.Fatalf("Detect(%q)=(%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.matched)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	const text = "error with payment on the website"
	first, _ := Detect(text)
	for i := 0; i < 10; i++ {
		if got, _ := Detect(text); got != first {
			t.Fatalf("Detect not deterministic: %q then %q", first, got)
		}
	}
}
