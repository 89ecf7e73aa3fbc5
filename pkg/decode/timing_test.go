package decode

import "testing"

func TestRecoverFramePTSPrefersFramePTS(t *testing.T) {
	tb := Rational{Num: 1, Den: 90000}
	got := RecoverFramePTS(90000, 45000, tb)
	if got != 1.0 {
		t.Fatalf("expected frame pts to win, got %v", got)
	}
}

func TestRecoverFramePTSFallsBackToDTS(t *testing.T) {
	tb := Rational{Num: 1, Den: 90000}
	got := RecoverFramePTS(UnknownTS, 45000, tb)
	if got != 0.5 {
		t.Fatalf("expected dts fallback of 0.5, got %v", got)
	}
}

func TestRecoverFramePTSFallsBackToZero(t *testing.T) {
	tb := Rational{Num: 1, Den: 90000}
	got := RecoverFramePTS(UnknownTS, UnknownTS, tb)
	if got != 0 {
		t.Fatalf("expected 0 when both unknown, got %v", got)
	}
}

func TestAdvanceVideoClockUsesInputPTSWhenKnown(t *testing.T) {
	pts, next := AdvanceVideoClock(9.0, 10.0, 1.0/25.0, 0)
	if pts != 10.0 {
		t.Fatalf("expected frame pts 10.0, got %v", pts)
	}
	want := 10.0 + 1.0/25.0
	if diff := next - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected next clock %v, got %v", want, next)
	}
}

func TestAdvanceVideoClockInheritsPreviousWhenUnknown(t *testing.T) {
	pts, next := AdvanceVideoClock(9.0, 0, 1.0/25.0, 0)
	if pts != 9.0 {
		t.Fatalf("expected inherited pts 9.0, got %v", pts)
	}
	want := 9.0 + 1.0/25.0
	if diff := next - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected next clock %v, got %v", want, next)
	}
}

func TestAdvanceVideoClockAccountsForRepeatedFields(t *testing.T) {
	_, next := AdvanceVideoClock(0, 1.0, 0.04, 1)
	want := 1.0 + 0.04 + 0.5*0.04
	if diff := next - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected repeat-field-adjusted clock %v, got %v", want, next)
	}
}
