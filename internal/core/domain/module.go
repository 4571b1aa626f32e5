package domain

// Submodule is a single navigable entry nested under a sidebar module.
type Submodule struct {
	Name  string `json:"name" bson:"name"`
	Route string `json:"route" bson:"route"`
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`
	Rank  int    `json:"rank" bson:"rank"`
}

// Module is a top-level sidebar entry (hostel, library, medical, canteen,
// course scheduling, ...). AllowedRoles restricts which active roles see it.
type Module struct {
	ID           string      `json:"id" bson:"_id,omitempty"`
	Name         string      `json:"name" bson:"name"`
	Route        string      `json:"route" bson:"route"`
	Icon         string      `json:"icon,omitempty" bson:"icon,omitempty"`
	Rank         int         `json:"rank" bson:"rank"`
	AllowedRoles []Role      `json:"allowed_roles" bson:"allowed_roles"`
	Submodules   []Submodule `json:"submodules,omitempty" bson:"submodules,omitempty"`
}

// VisibleTo reports whether the module should appear in the sidebar for the
// given active role.
func (m *Module) VisibleTo(role Role) bool {
	for _, allowed := range m.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}
