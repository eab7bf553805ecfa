package model

import "testing"

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"low", PriorityLow, true},
		{"medium", PriorityMedium, true},
		{"high", PriorityHigh, true},
		{"critical", PriorityCritical, true},
		{"2", PriorityHigh, true}, // numeric form passes through
		{"urgent", "", false},
		{"", "", false},
		{"5", "", false},
	}
	for _, tc := range cases {
		got, ok := ParsePriority(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePriority(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseStage(t *testing.T) {
	cases := []struct {
		in   string
		want Stage
		ok   bool
	}{
		{"pending", StageNew, true},
		{"in_progress", StageInProgress, true},
		{"repaired", StageRepaired, true},
		{"scrap", StageScrap, true},
		{"In Progress", StageInProgress, true}, // stored form passes through
		{"done", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStage(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseStage(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStageTerminal(t *testing.T) {
	if StageNew.Terminal() || StageInProgress.Terminal() {
		t.Fatal("open stage reported terminal")
	}
	if !StageRepaired.Terminal() || !StageScrap.Terminal() {
		t.Fatal("closing stage not reported terminal")
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(RoleUser); got != StatusActive {
		t.Fatalf("user initial status = %s, want active", got)
	}
	for _, r := range []Role{RoleAdmin, RoleTechnician} {
		if got := InitialStatus(r); got != StatusPending {
			t.Fatalf("%s initial status = %s, want pending", r, got)
		}
	}
}
