package model

import "github.com/google/uuid"

// Principal is the authenticated actor extracted from the access
// token. The engine only needs it as the identity recorded on status
// history rows; authorization decisions live outside this service.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (p Principal) IsPlanner() bool { return p.Role == "PLANNER" }
func (p Principal) IsDriver() bool  { return p.Role == "DRIVER" }
