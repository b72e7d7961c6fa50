package encoding

import "testing"

func TestEUCKRRoundTrip(t *testing.T) {
	tests := []string{"ascii.gnd", "프론테라.gnd", "data\\texture\\유저인터페이스"}
	for _, s := range tests {
		if got := EUCKRToUTF8(UTF8ToEUCKR(s)); got != s {
			t.Errorf("round trip %q = %q", s, got)
		}
	}
}

func TestFixedString(t *testing.T) {
	field := UTF8ToFixedString("프론테라", 16)
	if len(field) != 16 {
		t.Fatalf("field length = %d, want 16", len(field))
	}
	if got := FixedStringToUTF8(field); got != "프론테라" {
		t.Errorf("FixedStringToUTF8 = %q", got)
	}
}

func TestNormalizeGRFPath(t *testing.T) {
	if got := NormalizeGRFPath(`DATA\Prontera.GND`); got != "data/prontera.gnd" {
		t.Errorf("NormalizeGRFPath = %q", got)
	}
}
