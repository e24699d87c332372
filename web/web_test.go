package web

import "testing"

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:      "0,00 €",
		20.97:  "20,97 €",
		1234.5: "1.234,50 €",
	}
	for in, want := range cases {
		if got := Money(in); got != want {
			t.Fatalf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbeddedTemplatesLoad(t *testing.T) {
	if err := Engine("").Load(); err != nil {
		t.Fatalf("load templates: %v", err)
	}
}
