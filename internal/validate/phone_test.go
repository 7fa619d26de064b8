package validate

import "testing"

func TestEthiopianMobile(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phone string
		want  bool
	}{
		{"0912345678", true},
		{"0987654321", true},
		{"123", false},
		{"0812345678", false},  // not a mobile prefix
		{"09123456789", false}, // too long
		{"091234567", false},   // too short
		{"+251912345678", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := EthiopianMobile(tc.phone); got != tc.want {
			t.Errorf("EthiopianMobile(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestNormalizeInternational(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"+251 91 234 5678", "+251912345678"},
		{"00251912345678", "+251912345678"},
		{"251912345678", "+251912345678"},
		{"(254) 712-345678", "+254712345678"},
		{"abc", ""},
		{"+2519x2345678", ""},
	}

	for _, tc := range cases {
		if got := NormalizeInternational(tc.in); got != tc.want {
			t.Errorf("NormalizeInternational(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInternationalPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phone string
		want  bool
	}{
		{"+251912345678", true},
		{"+254712345678", true},
		{"+14155552671", true},
		{"+2519123456", false},    // Ethiopian national number too short
		{"+141555526711234", false}, // US national number too long
		{"+123", false},           // below E.164 minimum
		{"123", false},
		{"+97145551234", true}, // UAE 8-digit national number
	}

	for _, tc := range cases {
		if got := InternationalPhone(tc.phone); got != tc.want {
			t.Errorf("InternationalPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestAccountNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		account string
		want    bool
	}{
		{"1000234567891", true},
		{"0123456789", true},
		{"123456789", false}, // below minimum length
		{"12345678901234567", false},
		{"10002345a7891", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := AccountNumber(tc.account); got != tc.want {
			t.Errorf("AccountNumber(%q) = %v, want %v", tc.account, got, tc.want)
		}
	}
}
