package dto

import "github.com/worldhost-group/support-dashboard/internal/domain"

// SignupRequest payload.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the profile shape returned to the dashboard.
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	Bio        *string `json:"bio"`
	Location   *string `json:"location"`
	Facebook   *string `json:"facebook"`
	Twitter    *string `json:"twitter"`
	LinkedIn   *string `json:"linkedin"`
	Instagram  *string `json:"instagram"`
	Country    *string `json:"country"`
	CityState  *string `json:"cityState"`
	PostalCode *string `json:"postalCode"`
	TaxID      *string `json:"taxId"`
	AvatarURL  *string `json:"avatarUrl"`
}

// NewUserResponse maps a domain user to its API shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		Bio:        user.Bio,
		Location:   user.Location,
		Facebook:   user.Facebook,
		Twitter:    user.Twitter,
		LinkedIn:   user.LinkedIn,
		Instagram:  user.Instagram,
		Country:    user.Country,
		CityState:  user.CityState,
		PostalCode: user.PostalCode,
		TaxID:      user.TaxID,
		AvatarURL:  user.AvatarURL,
	}
}

// UpdateProfileRequest carries profile edits; absent fields are untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	Bio        *string `json:"bio"`
	Location   *string `json:"location"`
	Facebook   *string `json:"facebook"`
	Twitter    *string `json:"twitter"`
	LinkedIn   *string `json:"linkedin"`
	Instagram  *string `json:"instagram"`
	Country    *string `json:"country"`
	CityState  *string `json:"cityState"`
	PostalCode *string `json:"postalCode"`
	TaxID      *string `json:"taxId"`
	AvatarURL  *string `json:"avatarUrl"`
}

// ExtensionLoginResponse returns the short-lived ingest token.
type ExtensionLoginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
