package checksum

import "testing"

func TestSumStable(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Fatalf("Sum not deterministic: %s vs %s", a, b)
	}
	if a == Sum([]byte("world")) {
		t.Fatal("distinct inputs produced identical digests")
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64", len(a))
	}
}

func TestFieldMatchesAnkiAlgorithm(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		// SHA-1("") = da39a3ee5e6b4b0d...
		{"", 0xda39a3ee},
		// SHA-1("abc") = a9993e364706816a...
		{"abc", 0xa9993e36},
		// SHA-1("hello") = aaf4c61ddcc5e8a2...
		{"hello", 0xaaf4c61d},
	}
	for _, c := range cases {
		if got := Field(c.in); got != c.want {
			t.Errorf("Field(%q) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestFieldDeterministic(t *testing.T) {
	if Field("What is ACID?") != Field("What is ACID?") {
		t.Fatal("Field not deterministic")
	}
}
