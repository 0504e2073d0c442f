package common

import (
	"strings"
)

type Role string

const (
	LabAssistant      Role = "lab_assistant"
	CentralStoreAdmin Role = "central_store_admin"
	Admin             Role = "admin"
)

// centralLabAdmin is a second spelling of the central store role seen in
// client call sites; it resolves to CentralStoreAdmin until the backend
// settles on one string.
const centralLabAdmin = "central_lab_admin"

var roleAliases = map[string]Role{
	string(LabAssistant):      LabAssistant,
	string(CentralStoreAdmin): CentralStoreAdmin,
	centralLabAdmin:           CentralStoreAdmin,
	string(Admin):             Admin,
}

// ParseRole resolves a session role string to a Role.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Actor is the authenticated caller as seen by the engine.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	LabID string `json:"lab_id"`
}
