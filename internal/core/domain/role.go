package domain

import (
	"sort"
	"strings"
)

// Role is a membership tier. The set of roles is closed and fixed at compile time.
type Role string

const (
	RoleGuest            Role = "guest"
	RoleCandidate        Role = "candidate"
	RoleInitiate         Role = "initiate"
	RoleMember           Role = "member"
	RoleJuniorLeadman    Role = "junior_leadman"
	RoleSeniorLeadman    Role = "senior_leadman"
	RoleLeadmanTreasurer Role = "leadman_treasurer"
	RoleLeadmanSecretary Role = "leadman_secretary"
	RoleGovernor         Role = "governor"
	RoleHistorian        Role = "historian"
	RoleSudoAdmin        Role = "sudo_admin"
)

// SecurityLevel orders roles by organisational authority, 0 (guest) to 4 (top leadership).
type SecurityLevel int

const (
	LevelNone       SecurityLevel = 0
	LevelProspect   SecurityLevel = 1
	LevelMember     SecurityLevel = 2
	LevelLeadership SecurityLevel = 3
	LevelExecutive  SecurityLevel = 4
)

// RoleInfo is the display metadata attached to a role.
type RoleInfo struct {
	Role  Role          `json:"role"`
	Name  string        `json:"name"`
	Color string        `json:"color"`
	Icon  string        `json:"icon"`
	Level SecurityLevel `json:"level"`
}

var unknownRole = RoleInfo{Name: "Unknown", Color: "#9E9E9E", Icon: "help-circle-outline", Level: LevelNone}

var roleTable = map[Role]RoleInfo{
	RoleGuest:            {Role: RoleGuest, Name: "Guest", Color: "#9E9E9E", Icon: "person-outline", Level: LevelNone},
	RoleCandidate:        {Role: RoleCandidate, Name: "Candidate", Color: "#8D6E63", Icon: "person-add-outline", Level: LevelProspect},
	RoleInitiate:         {Role: RoleInitiate, Name: "Initiate", Color: "#FF9800", Icon: "school-outline", Level: LevelProspect},
	RoleMember:           {Role: RoleMember, Name: "Member", Color: "#2196F3", Icon: "person", Level: LevelMember},
	RoleJuniorLeadman:    {Role: RoleJuniorLeadman, Name: "Junior Leadman", Color: "#4CAF50", Icon: "shield-outline", Level: LevelLeadership},
	RoleSeniorLeadman:    {Role: RoleSeniorLeadman, Name: "Senior Leadman", Color: "#388E3C", Icon: "shield", Level: LevelLeadership},
	RoleLeadmanTreasurer: {Role: RoleLeadmanTreasurer, Name: "Leadman Treasurer", Color: "#009688", Icon: "cash-outline", Level: LevelLeadership},
	RoleLeadmanSecretary: {Role: RoleLeadmanSecretary, Name: "Leadman Secretary", Color: "#00796B", Icon: "document-text-outline", Level: LevelLeadership},
	RoleGovernor:         {Role: RoleGovernor, Name: "Governor", Color: "#9C27B0", Icon: "star", Level: LevelExecutive},
	RoleHistorian:        {Role: RoleHistorian, Name: "Historian", Color: "#673AB7", Icon: "book", Level: LevelExecutive},
	RoleSudoAdmin:        {Role: RoleSudoAdmin, Name: "System Admin", Color: "#F44336", Icon: "key", Level: LevelExecutive},
}

// Info returns the display metadata for r. Unrecognised roles get the
// "Unknown" entry at LevelNone.
func (r Role) Info() RoleInfo {
	if info, ok := roleTable[r]; ok {
		return info
	}
	info := unknownRole
	info.Role = r
	return info
}

// Level returns the security level of r, LevelNone for unknown roles.
func (r Role) Level() SecurityLevel {
	return r.Info().Level
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Level is the package-level form of Role.Level.
func Level(r Role) SecurityLevel {
	return r.Level()
}

// ParseRole normalises s into a Role. The result may be invalid; callers that
// care check Valid.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Roles lists every defined role, highest level first and then by display name.
func Roles() []RoleInfo {
	out := make([]RoleInfo, 0, len(roleTable))
	for _, info := range roleTable {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}
