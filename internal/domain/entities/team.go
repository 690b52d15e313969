package entities

// Team is the closed set of organizational teams a user belongs to and a
// task can be assigned to. Values are stored verbatim in the database, so
// membership checks are case-sensitive.
type Team string

const (
	TeamSales      Team = "Sales"
	TeamDevs       Team = "Devs"
	TeamMarketing  Team = "Marketing"
	TeamDesign     Team = "Design"
	TeamOperations Team = "Operations"
	TeamFinance    Team = "Finance"
	TeamHR         Team = "HR"
	TeamGeneral    Team = "General"
)

// AllTeams lists every valid team in display order.
var AllTeams = []Team{
	TeamSales,
	TeamDevs,
	TeamMarketing,
	TeamDesign,
	TeamOperations,
	TeamFinance,
	TeamHR,
	TeamGeneral,
}

var teamSet = func() map[Team]struct{} {
	s := make(map[Team]struct{}, len(AllTeams))
	for _, t := range AllTeams {
		s[t] = struct{}{}
	}
	return s
}()

// IsValid checks if the team is one of the known values.
func (t Team) IsValid() bool {
	_, ok := teamSet[t]
	return ok
}

// String implements fmt.Stringer.
func (t Team) String() string {
	return string(t)
}
