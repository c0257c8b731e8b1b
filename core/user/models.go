package user

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/campus/core"
)

// Role discriminates the kind of Person an account belongs to. It never changes once set.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// HashCost is the bcrypt cost used by SetPassword. Lowered in tests.
var HashCost = bcrypt.DefaultCost

// User is the identity shared by every Person of the roster.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	AvatarURL    string `json:"avatar_url"`
	Status       Status `json:"status"`
	PasswordHash []byte `json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), HashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsActive reports whether the account may sign in. An unset status counts as active.
func (u *User) IsActive() bool { return u.Status != StatusSuspended }

// AvatarURL returns the placeholder avatar of the Person with the given id.
func AvatarURL(id int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/200", id)
}

// GeneratePassword returns a random 32 hex digits password.
func GeneratePassword() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NewUser contains the identity needed to create a new Person.
type NewUser struct {
	Name             string `json:"name" validate:"notblank"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	GeneratePassword bool   `json:"generate_password"`
}

// FillPassword replaces the password with a generated one when asked to, and returns it.
func (nu *NewUser) FillPassword() string {
	if !nu.GeneratePassword {
		return ""
	}
	nu.Password = GeneratePassword()
	return nu.Password
}

// Clean normalizes the user input before validation.
func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
}
