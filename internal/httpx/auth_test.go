package httpx

import "testing"

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		found bool
	}{
		{"Bearer abc123", "abc123", true},
		{"Bearer   abc123  ", "abc123", true},
		{"Bearer ", "", false},
		{"bearer abc123", "", false},
		{"Basic abc123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, found := ExtractBearerToken(tt.in)
		if got != tt.want || found != tt.found {
			t.Errorf("ExtractBearerToken(%q) = (%q, %v), want (%q, %v)", tt.in, got, found, tt.want, tt.found)
		}
	}
}
