package user

import "testing"

func TestCheckPassword_CollectsEveryViolation(t *testing.T) {
	problems := CheckPassword("abc")
	// Too short, no uppercase, no digit, no symbol.
	if len(problems) != 4 {
		t.Fatalf("got %d problems, want 4: %v", len(problems), problems)
	}
}

func TestCheckPassword_AcceptsStrongPassword(t *testing.T) {
	if problems := CheckPassword("Tr0ub4dor&3x"); len(problems) != 0 {
		t.Fatalf("strong password rejected: %v", problems)
	}
}

func TestCheckPassword_Denylist(t *testing.T) {
	problems := CheckPassword("Password123")
	found := false
	for _, p := range problems {
		if p == "password is too common" {
			found = true
		}
	}
	if !found {
		t.Fatalf("denylisted password not flagged: %v", problems)
	}
}

func TestCheckPassword_Length(t *testing.T) {
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if problems := CheckPassword(string(long)); len(problems) == 0 {
		t.Error("129-character password accepted")
	}
	if problems := CheckPassword("Ab1!xyzw"); len(problems) != 0 {
		t.Errorf("8-character compliant password rejected: %v", problems)
	}
}

func TestPasswordStrength_ScoreAndLabels(t *testing.T) {
	cases := []struct {
		password string
		score    int
		label    StrengthLabel
	}{
		// 20 chars caps the length bonus at 40; all four categories add 60.
		{"Abcdefgh1!Abcdefgh1!", 100, StrengthVeryStrong},
		// 8 chars = 16, plus four categories = 76.
		{"Ab1!Ab1!", 76, StrengthStrong},
		// 8 lowercase chars = 16, one category = 31.
		{"abcdefgh", 31, StrengthWeak},
		// 4 lowercase chars = 8, one category = 23.
		{"abcd", 23, StrengthWeak},
		{"", 0, StrengthVeryWeak},
	}
	for _, c := range cases {
		if got := PasswordStrength(c.password); got != c.score {
			t.Errorf("PasswordStrength(%q) = %d, want %d", c.password, got, c.score)
		}
		if got := StrengthLabelFor(c.score); got != c.label {
			t.Errorf("StrengthLabelFor(%d) = %s, want %s", c.score, got, c.label)
		}
	}
}
