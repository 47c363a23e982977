package keys

import "testing"

func TestIsTextKey(t *testing.T) {
	for _, key := range []string{"a", "Z", "7", ";", "é", "space", " "} {
		if !IsTextKey(key) {
			t.Fatalf("expected %q to be a text key", key)
		}
	}
	for _, key := range []string{"", "enter", "tab", "esc", "ctrl+c", "backspace", "\t", "up"} {
		if IsTextKey(key) {
			t.Fatalf("expected %q not to be a text key", key)
		}
	}
}

func TestParseFinger(t *testing.T) {
	f, err := ParseFinger(" Index ")
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if f != Index {
		t.Fatalf("expected index, got %q", f)
	}
	if _, err := ParseFinger("thumb"); err == nil {
		t.Fatalf("expected thumb to be rejected")
	}
}

func TestRestrict(t *testing.T) {
	got := string(Restrict(Pinky, "qpx"))
	if got != "qp" {
		t.Fatalf("expected qp, got %q", got)
	}
	if got := string(Restrict(Ring, "")); got != string(FingerKeys(Ring)) {
		t.Fatalf("expected all ring keys, got %q", got)
	}
}
