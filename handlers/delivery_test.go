package handlers

import "testing"

func TestReceiptContentType(t *testing.T) {
	cases := []struct {
		ext      string
		partType string
		want     string
		allowed  bool
	}{
		{".jpg", "", "image/jpeg", true},
		{".jpeg", "", "image/jpeg", true},
		{".png", "", "image/png", true},
		{".pdf", "", "application/pdf", true},
		{"", "image/jpeg", "image/jpeg", true},
		{"", "application/pdf", "application/pdf", true},
		{".exe", "", "", false},
		{".txt", "text/plain", "", false},
	}
	for _, c := range cases {
		got, allowed := receiptContentType(c.ext, c.partType)
		if allowed != c.allowed || got != c.want {
			t.Errorf("receiptContentType(%q, %q) = (%q, %v), want (%q, %v)",
				c.ext, c.partType, got, allowed, c.want, c.allowed)
		}
	}
}

func TestDeliveryStatusValid(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		if !deliveryStatusValid(s) {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING"} {
		if deliveryStatusValid(s) {
			t.Errorf("status %q should be invalid", s)
		}
	}
}
