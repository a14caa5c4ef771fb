package domain

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleDriver   UserRole = "DRIVER"
	UserRoleAdmin    UserRole = "ADMIN"
)

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
