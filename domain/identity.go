package domain

import (
	"math"
	"sort"
	"strings"
)

const GuestPrefix = "guest_"

// Identity is what the authentication collaborator hands to the core for every request.
type Identity struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	Guest bool   `json:"guest"`
}

func IsGuest(login string) bool {
	return strings.HasPrefix(login, GuestPrefix)
}

// Member is one entry of the meeting roster.
type Member struct {
	Login        string `yaml:"login" validate:"required"`
	Name         string `yaml:"name" validate:"required"`
	PasswordHash string `yaml:"password_hash"`
}

// Roster is the fixed list of registered members, read once at startup.
type Roster struct {
	members map[string]Member
	admins  map[string]struct{}
}

func NewRoster(members []Member, admins []string) Roster {
	r := Roster{members: make(map[string]Member, len(members)), admins: make(map[string]struct{}, len(admins))}
	for _, m := range members {
		r.members[m.Login] = m
	}
	for _, a := range admins {
		r.admins[a] = struct{}{}
	}
	return r
}

func (r Roster) Contains(login string) bool {
	_, ok := r.members[login]
	return ok
}

func (r Roster) Member(login string) (Member, bool) {
	m, ok := r.members[login]
	return m, ok
}

func (r Roster) IsAdmin(login string) bool {
	_, ok := r.admins[login]
	return ok
}

func (r Roster) Total() int {
	return len(r.members)
}

func (r Roster) Logins() []string {
	out := make([]string, 0, len(r.members))
	for login := range r.members {
		out = append(out, login)
	}
	sort.Strings(out)
	return out
}

// RequiredQuorum is the number of credited members needed: one third, rounded up.
func RequiredQuorum(totalMembers int) int {
	if totalMembers <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalMembers) / 3))
}
