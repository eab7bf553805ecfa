package model

// Team is a maintenance crew with a shared specialization.
type Team struct {
	ID             uint64
	Name           string
	Specialization string
	Members        []TeamMember
}

// TeamMember links a technician to a team. Only users holding the
// technician role may be added.
type TeamMember struct {
	ID       uint64
	TeamID   uint64
	UserID   uint64
	Role     string // position inside the team, e.g. "member", "lead"
	FullName string // joined from users for list responses
	Email    string
}
