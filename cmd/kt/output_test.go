package main

import "testing"

func TestTruncate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly_ten", 11, "exactly_ten"},
		{"a_rather_long_kernel_name", 10, "a_rathe..."},
	} {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestFlagsCell_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := flagsCell(nil); got != "" {
		t.Errorf("flagsCell(nil) = %q, want empty", got)
	}
	got := flagsCell([]string{"suspicious_timing", "degenerate_duration"})
	want := "suspicious_timing;degenerate_duration"
	if got != want {
		t.Errorf("flagsCell() = %q, want %q", got, want)
	}
}

func TestShouldUseColor_Env(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if shouldUseColor() {
		t.Error("NO_COLOR must win over CLICOLOR_FORCE")
	}

	t.Setenv("NO_COLOR", "")
	if !shouldUseColor() {
		t.Error("CLICOLOR_FORCE=1 should force color without a TTY")
	}

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if shouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
}
