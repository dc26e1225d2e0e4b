package models

import "testing"

func TestDeliveryDeletable(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{DeliveryPending, true},
		{DeliveryApproved, false},
		{DeliveryRejected, false},
	}
	for _, c := range cases {
		d := Delivery{Status: c.status}
		if got := d.Deletable(); got != c.want {
			t.Errorf("Deletable() with status %q = %v, want %v", c.status, got, c.want)
		}
	}
}
