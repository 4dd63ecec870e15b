package urlnorm

import "testing"

func TestNormalize_EquivalenceClass(t *testing.T) {
	got := Normalize("http://www.Example.com/a/")
	want := "http://example.com/a"
	if got != want {
		t.Fatalf("Normalize(www variant) = %q, want %q", got, want)
	}
	if Normalize("http://example.com/a") != want {
		t.Fatalf("Normalize(canonical) mismatch")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://WWW.Example.com/Path/",
		"https://example.com/",
		"https://example.com",
		"https://example.com/a?b=1#frag",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalize_RootPathKept(t *testing.T) {
	if got := Normalize("https://example.com/"); got != "https://example.com/" {
		t.Fatalf("root path should be kept, got %q", got)
	}
}

func TestNormalize_InvalidURLReturnedUnchanged(t *testing.T) {
	bad := "http://[::1"
	if got := Normalize(bad); got != bad {
		t.Fatalf("Normalize(invalid) = %q, want unchanged %q", got, bad)
	}
}

func TestNormalize_DropsQueryAndFragment(t *testing.T) {
	got := Normalize("https://example.com/a?x=1#frag")
	if got != "https://example.com/a" {
		t.Fatalf("Normalize should drop query/fragment, got %q", got)
	}
}
