package idhash

import (
	"testing"

	"github.com/mr-tron/base58"

	"cosmic-blueprint/internal/domain"
)

func pretoria() domain.BirthInput {
	return domain.BirthInput{
		Date:      "1990-09-04",
		Time:      "12:45:00",
		Location:  "Pretoria",
		Latitude:  -25.7479,
		Longitude: 28.2293,
	}
}

func TestInputFingerprint(t *testing.T) {
	got := InputFingerprint(pretoria())

	raw, err := base58.Decode(got)
	if err != nil {
		t.Fatalf("InputFingerprint() is not base58: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("decoded fingerprint length = %d, want 32", len(raw))
	}

	// Verify determinism: same inputs should produce same output
	for i := 0; i < 10; i++ {
		if again := InputFingerprint(pretoria()); again != got {
			t.Errorf("InputFingerprint() not deterministic: %s != %s", got, again)
		}
	}
}

func TestInputFingerprint_FieldSensitivity(t *testing.T) {
	base := InputFingerprint(pretoria())

	tests := []struct {
		name   string
		modify func(*domain.BirthInput)
	}{
		{"date", func(in *domain.BirthInput) { in.Date = "1990-09-05" }},
		{"time", func(in *domain.BirthInput) { in.Time = "12:45:01" }},
		{"timezone", func(in *domain.BirthInput) { in.Timezone = "Africa/Johannesburg" }},
		{"latitude", func(in *domain.BirthInput) { in.Latitude = -25.748 }},
		{"longitude", func(in *domain.BirthInput) { in.Longitude = 28.2294 }},
		{"location", func(in *domain.BirthInput) { in.Location = "Tshwane" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := pretoria()
			tt.modify(&in)
			if got := InputFingerprint(in); got == base {
				t.Errorf("changing %s did not change the fingerprint", tt.name)
			}
		})
	}
}

func TestPairFingerprint(t *testing.T) {
	a := pretoria()
	b := pretoria()
	b.Date = "1988-02-14"

	ab := PairFingerprint(a, b)
	if len(ab) != 64 {
		t.Errorf("PairFingerprint() length = %d, want 64", len(ab))
	}
	if ab != PairFingerprint(a, b) {
		t.Error("PairFingerprint() not deterministic")
	}
	if ab == PairFingerprint(b, a) {
		t.Error("PairFingerprint() must depend on order")
	}
}
