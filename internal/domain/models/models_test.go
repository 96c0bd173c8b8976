package models

import (
	"testing"
	"time"
)

func TestIsValidContentStatus(t *testing.T) {
	for _, s := range []string{"draft", "published", "archived"} {
		if !IsValidContentStatus(s) {
			t.Errorf("IsValidContentStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Draft", "live"} {
		if IsValidContentStatus(s) {
			t.Errorf("IsValidContentStatus(%q) = true", s)
		}
	}
}

func TestAllContentKinds_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range AllContentKinds() {
		for _, v := range []string{k.Collection, k.ImageDir, k.Route} {
			if seen[v] {
				t.Errorf("duplicate value %q", v)
			}
			seen[v] = true
		}
	}
}

func TestOrphanReport_IsOutstanding(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		rep  OrphanReport
		want bool
	}{
		{"open", OrphanReport{}, true},
		{"resolved", OrphanReport{ResolvedAt: &now}, false},
		{"abandoned", OrphanReport{AbandonedAt: &now}, false},
	}
	for _, tt := range tests {
		if got := tt.rep.IsOutstanding(); got != tt.want {
			t.Errorf("%s: IsOutstanding() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
