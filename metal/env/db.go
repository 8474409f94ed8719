package env

import "fmt"

type DBEnvironment struct {
	UserName     string `validate:"required,min=3"`
	UserPassword string `validate:"required,min=3"`
	DatabaseName string `validate:"required,min=3"`
	Port         int    `validate:"required,gt=0"`
	Host         string `validate:"required"`
	DriverName   string `validate:"required,oneof=postgres"`
	SSLMode      string `validate:"required,oneof=disable require verify-ca verify-full"`
	TimeZone     string `validate:"required"`
}

func (e DBEnvironment) GetDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		e.Host,
		e.UserName,
		e.UserPassword,
		e.DatabaseName,
		e.Port,
		e.SSLMode,
		e.TimeZone,
	)
}
