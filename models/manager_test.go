package models

import "testing"

func TestPermissionsAllows(t *testing.T) {
	p := Permissions{
		ModuleAccounting: {Create: true, Read: true},
		ModuleDeliveries: {Read: true, Update: true},
	}

	if !p.Allows(ModuleAccounting, "create") {
		t.Error("accounting create should be allowed")
	}
	if p.Allows(ModuleAccounting, "delete") {
		t.Error("accounting delete should be denied")
	}
	if !p.Allows(ModuleDeliveries, "update") {
		t.Error("deliveries update should be allowed")
	}
	if p.Allows(ModuleUsers, "read") {
		t.Error("absent module should be denied")
	}
	if p.Allows(ModuleAccounting, "approve") {
		t.Error("unknown action should be denied")
	}
}
