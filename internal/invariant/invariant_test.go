//go:build !debug

package invariant

import "testing"

func TestCheck_ReleaseReturnsCondition(t *testing.T) {
	if !Check(true, "never reported") {
		t.Fatalf("expected true for a holding invariant")
	}
	if Check(false, "parent %d already set", 3) {
		t.Fatalf("expected false for a broken invariant")
	}
}

func TestFatal_ReleaseBuild(t *testing.T) {
	if Fatal() {
		t.Fatalf("release builds must not treat violations as fatal")
	}
}
