// Package models defines the data types exchanged with the CrewDesk API and
// the session state published to the rest of the application.
package models

// User is the account record as returned by the API.
type User struct {
	ID             int     `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Status         string  `json:"status"`
	DepartmentID   *int    `json:"department_id"`
	DepartmentName *string `json:"department_name"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	LastSeen       string  `json:"last_seen,omitempty"`
	IsOnline       bool    `json:"is_online"`
}

// UserPatch is a partial user update applied locally by the session manager.
// Nil fields are left untouched.
type UserPatch struct {
	Email          *string
	FirstName      *string
	LastName       *string
	FullName       *string
	DepartmentID   *int
	DepartmentName *string
	ProfilePicture *string
}

// Apply merges the patch into u field by field.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.DepartmentID != nil {
		u.DepartmentID = p.DepartmentID
	}
	if p.DepartmentName != nil {
		u.DepartmentName = p.DepartmentName
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
}
