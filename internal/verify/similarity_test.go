package verify

import "testing"

func TestNormalizeCaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Smith v. Jones", "smith v jones"},
		{"SMITH  v.  JONES,", "smith v jones"},
		{"In re Aimster Copyright Litig.", "in re aimster copyright litig"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCaseName(tt.in); got != tt.want {
			t.Errorf("NormalizeCaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity_Identical(t *testing.T) {
	if got := Similarity("Miranda v. Arizona", "MIRANDA v. ARIZONA"); got != 1 {
		t.Errorf("Expected similarity 1 for equivalent captions, got %f", got)
	}
}

func TestSimilarity_CorporateSuffixNoise(t *testing.T) {
	// "Inc." and "Corp." are noise tokens; the party names dominate.
	got := Similarity("Smith v. Jones Corp.", "Smith v. Jones, Inc.")
	if got < 0.6 {
		t.Errorf("Expected corporate-suffix variants above threshold, got %f", got)
	}
}

func TestSimilarity_TruncatedCaption(t *testing.T) {
	got := Similarity("Consol. Edison v. Pub. Serv. Comm'n", "Consolidated Edison Co. v. Public Service Commission")
	if got <= 0 {
		t.Errorf("Expected partial similarity for truncated caption, got %f", got)
	}

	full := Similarity("Edison v. Public Service Commission", "Consolidated Edison Co. v. Public Service Commission")
	if full < 0.4 {
		t.Errorf("Expected substantial overlap for shared parties, got %f", full)
	}
}

func TestSimilarity_UnrelatedCases(t *testing.T) {
	got := Similarity("Smith v. Jones", "United States v. Nixon")
	if got >= 0.6 {
		t.Errorf("Expected unrelated captions below threshold, got %f", got)
	}
}

func TestSimilarity_EmptyInput(t *testing.T) {
	if got := Similarity("", "Smith v. Jones"); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"smith", "smyth", 1},
		{"", "abc", 3},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
