package internal

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input       string
		expectedCmd string
		expectedArg string
	}{
		{"view", "view", ""},
		{"answer 2", "answer", "2"},
		{"jump 10", "jump", "10"},
		{"jump  abc ", "jump", "abc"},
		{"  next  ", "next", ""},
		{"start 1 extra", "start", "1 extra"},
		{"", "", ""},
	}

	for _, test := range tests {
		cmd, arg := parseCommand([]byte(test.input))
		if cmd != test.expectedCmd {
			t.Errorf("input %q: expected command %q but got %q", test.input, test.expectedCmd, cmd)
		}
		if arg != test.expectedArg {
			t.Errorf("input %q: expected arg %q but got %q", test.input, test.expectedArg, arg)
		}
	}
}
