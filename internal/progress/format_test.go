package progress

import "testing"

func TestParseOutput(t *testing.T) {
	tests := []struct {
		in      string
		want    Output
		wantErr bool
	}{
		{"", OutputANSI, false},
		{"ansi", OutputANSI, false},
		{" RAW ", OutputRaw, false},
		{"plain", OutputRaw, false},
		{"html", OutputANSI, true},
	}
	for _, tt := range tests {
		got, err := ParseOutput(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutput(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"Always", ColorAlways, false},
		{"off", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	tests := []struct {
		mode        ColorMode
		interactive bool
		noColor     bool
		want        bool
	}{
		{ColorAuto, true, false, true},
		{ColorAuto, false, false, false},
		{ColorAuto, true, true, false},
		{ColorAlways, false, true, true},
		{ColorNever, true, false, false},
	}
	for _, tt := range tests {
		if tt.noColor {
			t.Setenv("NO_COLOR", "1")
		} else {
			t.Setenv("NO_COLOR", "")
		}
		f := Format{Color: tt.mode}
		if got := f.useColor(tt.interactive); got != tt.want {
			t.Errorf("%v interactive=%v NO_COLOR=%v: got %v", tt.mode, tt.interactive, tt.noColor, got)
		}
	}
}

func TestRawForcedWithoutTerminal(t *testing.T) {
	ind := New(DefaultFormat(), WithWriter(&screen{}), WithInteractive(false))
	if !ind.Raw() || ind.Format().Output != OutputRaw {
		t.Fatal("non-interactive output did not fall back to raw")
	}

	f := DefaultFormat()
	f.Output = OutputRaw
	ind = New(f, WithWriter(&screen{}), WithInteractive(true))
	if !ind.Raw() {
		t.Fatal("requested raw output ignored")
	}
}
