package domain

import "testing"

func TestParseRedirectMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RedirectMode
		wantErr bool
	}{
		{"direct", ModeDirect, false},
		{"", ModeDirect, false},
		{"TRACKED", ModeTracked, false},
		{" tracked ", ModeTracked, false},
		{"301", ModeDirect, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRedirectMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRedirectMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRedirectMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRedirectModeString(t *testing.T) {
	if ModeDirect.String() != "direct" || ModeTracked.String() != "tracked" {
		t.Errorf("unexpected names: %s, %s", ModeDirect, ModeTracked)
	}
}
