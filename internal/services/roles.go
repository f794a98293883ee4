package services

import "github.com/Mcdemzy/plenty-events-backend/internal/model"

// RoleDescriptor parameterizes the auth service per role: which profile
// fields registration requires and which the details-update path may touch.
// Vendor and waiter share one service implementation bound to different
// descriptors.
type RoleDescriptor struct {
	Name                   string
	RequiredProfileFields  []string
	UpdatableProfileFields []string
}

// ProfileFields returns the union of required and updatable fields; anything
// outside this set is dropped before storage.
func (d RoleDescriptor) ProfileFields() []string {
	seen := map[string]bool{}
	var fields []string
	for _, f := range append(append([]string{}, d.RequiredProfileFields...), d.UpdatableProfileFields...) {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields
}

var (
	VendorRole = RoleDescriptor{
		Name:                   model.RoleVendor,
		RequiredProfileFields:  []string{"firstName", "lastName", "businessName", "businessDescription"},
		UpdatableProfileFields: []string{"firstName", "lastName", "phone", "businessName", "businessDescription"},
	}

	WaiterRole = RoleDescriptor{
		Name:                   model.RoleWaiter,
		RequiredProfileFields:  []string{"firstName", "lastName"},
		UpdatableProfileFields: []string{"firstName", "lastName", "phone"},
	}
)
