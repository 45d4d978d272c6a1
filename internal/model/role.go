package model

// Role is the closed set of user roles recognised by the application.  The
// string values are stored in the users table and embedded in JWT claims,
// so they must never be renamed once issued.
type Role string

const (
    RoleAdmin  Role = "ADMIN"  // full access to every resource
    RoleCoach  Role = "COACH"  // manages teams and sessions
    RolePlayer Role = "PLAYER" // books sessions for themselves
    RoleParent Role = "PARENT" // books sessions on behalf of their children
    RoleChild  Role = "CHILD"  // minor account; bookable only through a guardian
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
    switch Role(s) {
    case RoleAdmin, RoleCoach, RolePlayer, RoleParent, RoleChild:
        return true
    }
    return false
}

// Allowed-role sets for protected operations.  Routes declare their gate by
// referencing one of these variables so the full permission table lives in
// one place rather than in scattered conditionals.
var (
    // RolesStaff may create and mutate teams, sessions and rosters.
    RolesStaff = []string{string(RoleAdmin), string(RoleCoach)}
    // RolesBooking may create bookings: players for themselves, parents for
    // a declared child.  The guardian relationship is verified separately.
    RolesBooking = []string{string(RoleAdmin), string(RolePlayer), string(RoleParent)}
    // RolesMember covers any authenticated account.
    RolesMember = []string{string(RoleAdmin), string(RoleCoach), string(RolePlayer), string(RoleParent), string(RoleChild)}
    // RolesAdmin restricts an operation to administrators.
    RolesAdmin = []string{string(RoleAdmin)}
)

// CanPlay reports whether the role represents a bookable participant, i.e.
// an account that may appear on team rosters and own bookings.
func (r Role) CanPlay() bool {
    return r == RolePlayer || r == RoleChild
}
