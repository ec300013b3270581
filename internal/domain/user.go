package domain

import "time"

// User is a staff member of the dashboard.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Bio          *string
	Location     *string
	Facebook     *string
	Twitter      *string
	LinkedIn     *string
	Instagram    *string
	Country      *string
	CityState    *string
	PostalCode   *string
	TaxID        *string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.FirstName != nil && *u.FirstName != "" {
		name := *u.FirstName
		if u.LastName != nil && *u.LastName != "" {
			name += " " + *u.LastName
		}
		return name
	}
	return u.Email
}
