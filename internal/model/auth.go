package model

import "errors"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,loginemail" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
}

// LoginResult is what the backend hands back on a successful login.
type LoginResult struct {
	AccessToken string
	User        User
}

// Session is the explicit credential value handed down from the shell to every panel.
type Session struct {
	ID          string `json:"-"`
	AccessToken string `json:"-"`
	User        User   `json:"user"`
}

// Shell tabs.
const (
	TabAppointments = "appointments"
	TabPatients     = "patients"
	TabSettings     = "settings"
)

var Tabs = []string{TabAppointments, TabPatients, TabSettings}

type ShellView struct {
	User      User     `json:"user"`
	Tabs      []string `json:"tabs"`
	ActiveTab string   `json:"activeTab"`
}

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no session")
	ErrInvalidToken       = errors.New("invalid access token")
)
