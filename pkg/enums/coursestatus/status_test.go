package coursestatus

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"pending", Pending},
		{"away", Away},
		{"sent", Sent},
		{"cleared", Cleared},
		{"AWAY", Away},
		{" sent ", Sent},
		{"", Pending},
		{"garbage", Pending},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestServed(t *testing.T) {
	if Pending.Served() || Away.Served() {
		t.Error("pending/away must not read as served")
	}
	if !Sent.Served() || !Cleared.Served() {
		t.Error("sent/cleared must read as served")
	}
}

func TestAtLeast(t *testing.T) {
	order := []Status{Pending, Away, Sent, Cleared}
	for i, lo := range order {
		for j, hi := range order {
			want := i >= j
			if got := lo.AtLeast(hi); got != want {
				t.Errorf("%v.AtLeast(%v) = %v, want %v", lo, hi, got, want)
			}
		}
	}
}

func TestLabel(t *testing.T) {
	if Away.Label() != "Away" {
		t.Errorf("Label() = %q, want Away", Away.Label())
	}
	if Status("").Label() != "" {
		t.Error("empty status label should be empty")
	}
}
