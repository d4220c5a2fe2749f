package domain

import "time"

type User struct {
	Id          UserId    `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       Email     `json:"email"`
	PassHash    string    `json:"-"`
	IsModerator bool      `json:"isModerator"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRef is the denormalized creator snapshot embedded into threads and
// comments at write time. Threads store only id+name, comments store the
// full snapshot, hence the omitempty on the tail fields.
type UserRef struct {
	Id          UserId `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username,omitempty"`
	Email       Email  `json:"email,omitempty"`
	IsModerator bool   `json:"isModerator,omitempty"`
}

// Ref returns the full snapshot used for comment creators.
func (u *User) Ref() UserRef {
	return UserRef{
		Id:          u.Id,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		IsModerator: u.IsModerator,
	}
}

// ThreadRef returns the minimal snapshot stored on threads.
func (u *User) ThreadRef() UserRef {
	return UserRef{Id: u.Id, Name: u.Name, Username: u.Username}
}

// to iterate thru layers: handler -> service -> storage
type RegistrationData struct {
	Name     string
	Username string
	Email    Email
	Password Password
}

type Credentials struct {
	Email    Email
	Password Password
}
