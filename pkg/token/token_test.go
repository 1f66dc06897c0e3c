package token

import (
	"regexp"
	"testing"
)

var inviteTokenPattern = regexp.MustCompile("^[a-f0-9]{64}$")

func TestGenerateInviteToken(t *testing.T) {
	tok, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}
	if !inviteTokenPattern.MatchString(tok) {
		t.Errorf("token %q does not match expected 64-char hex format", tok)
	}

	other, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}
	if tok == other {
		t.Error("two generated tokens are identical")
	}
}

func TestGenerateHex(t *testing.T) {
	tests := []struct {
		name       string
		byteLength int
		wantLen    int
		wantErr    bool
	}{
		{"16 bytes", 16, 32, false},
		{"32 bytes", 32, 64, false},
		{"zero", 0, 0, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateHex(tt.byteLength)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateHex(%d) error = %v, wantErr %v", tt.byteLength, err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Errorf("GenerateHex(%d) length = %d, want %d", tt.byteLength, len(got), tt.wantLen)
			}
		})
	}
}
