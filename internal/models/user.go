package models

// User types
const (
	UserTypeProvider = "provider"
	UserTypeCustomer = "customer"
)

// User is someone browsing the directory. Provider users are linked to
// their provider profile through ProviderID.
type User struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	ProviderID *int64 `json:"provider_id,omitempty" yaml:"provider_id,omitempty"`
}

// IsProvider reports whether the user manages a provider profile
func (u *User) IsProvider() bool {
	return u.Type == UserTypeProvider && u.ProviderID != nil
}

// Owns reports whether the user is the account behind providerID
func (u *User) Owns(providerID int64) bool {
	return u.IsProvider() && *u.ProviderID == providerID
}

// IsValidUserType checks if the user type is valid
func IsValidUserType(userType string) bool {
	return userType == UserTypeProvider || userType == UserTypeCustomer
}

// Clone returns a copy of the user that shares no pointers with u
func (u *User) Clone() *User {
	c := *u
	if u.ProviderID != nil {
		id := *u.ProviderID
		c.ProviderID = &id
	}
	return &c
}
