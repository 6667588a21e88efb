package questions

import "testing"

func TestEvalMath(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"3 + 4", 7},
		{"10 - 3", 7},
		{"2 + 3 * 4", 14},
		{"20 / 4 + 1", 6},
		{"7 / 2", 3},
		{"9 / 0", 0},
		{"5 - 9 + 1", -3},
		{"100", 100},
		{"1 - 10 / 3", -2},
	}

	for _, tt := range tests {
		got, err := evalMath(tt.expr)
		if err != nil {
			t.Errorf("evalMath(%q): %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("evalMath(%q) = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestEvalMathFloorDivision(t *testing.T) {
	if q := intDiv(-7, 2); q != -4 {
		t.Errorf("intDiv(-7, 2) = %d, want -4", q)
	}
	if q := intDiv(7, 2); q != 3 {
		t.Errorf("intDiv(7, 2) = %d, want 3", q)
	}
}

func TestEvalMathRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"", "1 + ", "x * 2", "1 ^ 2"} {
		if _, err := evalMath(expr); err == nil {
			t.Errorf("evalMath(%q): expected error", expr)
		}
	}
}

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"I", 1},
		{"IV", 4},
		{"IX", 9},
		{"XIV", 14},
		{"XC", 90},
		{"MCMXCIV", 1994},
		{"MMMCMXCIX", 3999},
		{" mcmxciv ", 1994},
	}
	for _, tt := range tests {
		got, err := romanToInt(tt.in)
		if err != nil {
			t.Errorf("romanToInt(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("romanToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := romanToInt("XYZ"); err == nil {
		t.Error("romanToInt(\"XYZ\"): expected error")
	}
}

func TestUsableHosts(t *testing.T) {
	tests := []struct {
		prefix int
		want   int
	}{
		{24, 254},
		{16, 65534},
		{29, 6},
		{31, 0},
		{32, 0},
	}
	for _, tt := range tests {
		if got := usableHosts(tt.prefix); got != tt.want {
			t.Errorf("usableHosts(%d) = %d, want %d", tt.prefix, got, tt.want)
		}
	}
}

func TestAnswerNetworkBroadcast(t *testing.T) {
	got, err := Answer(NetworkBroadcast, "192.168.1.130/25")
	if err != nil {
		t.Fatal(err)
	}
	want := "192.168.1.128 and 192.168.1.255"
	if got != want {
		t.Errorf("Answer = %q, want %q", got, want)
	}

	got, err = Answer(NetworkBroadcast, "10.20.30.40/16")
	if err != nil {
		t.Fatal(err)
	}
	want = "10.20.0.0 and 10.20.255.255"
	if got != want {
		t.Errorf("Answer = %q, want %q", got, want)
	}
}

func TestAnswerUsableIPs(t *testing.T) {
	got, err := Answer(UsableIPs, "10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	if got != "254" {
		t.Errorf("Answer = %q, want \"254\"", got)
	}
}

func TestAnswerUnknownCategory(t *testing.T) {
	if _, err := Answer("Geography", "x"); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := Generate("Geography"); err == nil {
		t.Error("expected error for unknown category")
	}
}

// Every generator must emit a short form its own verifier can answer.
func TestGenerateAnswerRoundTrip(t *testing.T) {
	for _, category := range Categories {
		for range 50 {
			short, err := Generate(category)
			if err != nil {
				t.Fatalf("Generate(%q): %v", category, err)
			}
			if _, err := Answer(category, short); err != nil {
				t.Errorf("Answer(%q, %q): %v", category, short, err)
			}
		}
	}
}
