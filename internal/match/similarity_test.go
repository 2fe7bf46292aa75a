// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "testing"

func TestTokenSetRatioIdentical(t *testing.T) {
	if got := TokenSetRatio("fed cut rates", "fed cut rates"); got != 100 {
		t.Errorf("identical texts = %f, want 100", got)
	}
}

func TestTokenSetRatioOrderInsensitive(t *testing.T) {
	a := TokenSetRatio("fed cut rates 2024", "2024 rates cut fed")
	if a != 100 {
		t.Errorf("reordered tokens = %f, want 100", a)
	}
}

func TestTokenSetRatioDuplicateInsensitive(t *testing.T) {
	a := TokenSetRatio("fed fed cut cut rates", "fed cut rates")
	if a != 100 {
		t.Errorf("duplicated tokens = %f, want 100", a)
	}
}

func TestTokenSetRatioSubset(t *testing.T) {
	// A terse title scores 100 against a verbose one sharing all its tokens.
	a := TokenSetRatio("fed cut rates", "will the fed cut rates by 25bps in 2024")
	if a != 100 {
		t.Errorf("subset vocabulary = %f, want 100", a)
	}
}

func TestTokenSetRatioDisjoint(t *testing.T) {
	a := TokenSetRatio("alpha beta", "gamma delta")
	if a >= 50 {
		t.Errorf("disjoint texts = %f, want < 50", a)
	}
}

func TestTokenSetRatioEmpty(t *testing.T) {
	if got := TokenSetRatio("", "fed cut rates"); got != 0 {
		t.Errorf("empty left = %f, want 0", got)
	}
	if got := TokenSetRatio("", ""); got != 0 {
		t.Errorf("both empty = %f, want 0", got)
	}
}

func TestTokenSetRatioNearMatch(t *testing.T) {
	// One differing token on each side still scores high.
	a := TokenSetRatio(
		"will the fed cut rates by 25bps in december 2024",
		"fed cuts rates by 25bps in december 2024",
	)
	if a < 80 {
		t.Errorf("near match = %f, want >= 80", a)
	}
	if a >= 100 {
		t.Errorf("near match = %f, want < 100", a)
	}
}

func TestTokenSetRatioRange(t *testing.T) {
	pairs := [][2]string{
		{"a b c", "c b a"},
		{"bitcoin above 100k", "bitcoin below 100k"},
		{"x", "completely different words here"},
	}
	for _, p := range pairs {
		got := TokenSetRatio(p[0], p[1])
		if got < 0 || got > 100 {
			t.Errorf("TokenSetRatio(%q, %q) = %f, out of [0,100]", p[0], p[1], got)
		}
	}
}
