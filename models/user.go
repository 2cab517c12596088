package models

import (
	"time"
)

type User struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Email              string         `json:"email" gorm:"unique"`
	Password           string         `json:"-"`
	Avatar             string         `json:"avatar,omitempty"`
	RoleID             uint           `json:"role_id"`
	Role               Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	LawyerProfile      *LawyerProfile `json:"lawyer_profile,omitempty" gorm:"foreignKey:UserID"`
	Appointments       []Appointment  `json:"appointments,omitempty" gorm:"foreignKey:LawyerID"`
	ClientAppointments []Appointment  `json:"client_appointments,omitempty" gorm:"foreignKey:ClientID"`
	Notifications      []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
