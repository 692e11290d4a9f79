package version

import "testing"

func TestInfo_String(t *testing.T) {
	i := Info{Version: "v0.3.0", Commit: "1a2b3c", Date: "2026-01-02"}
	if got, want := i.String(), "v0.3.0 (commit 1a2b3c, built 2026-01-02)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGet_Defaults(t *testing.T) {
	if got := Get(); got.Version != "dev" || got.Commit != "unknown" || got.Date != "unknown" {
		t.Errorf("Get() = %+v", got)
	}
}
