package domain

import (
	"time"
)

type EmployeeRole string

const (
	RoleNurse    EmployeeRole = "N"
	RoleDoctor   EmployeeRole = "D"
	RoleResident EmployeeRole = "A"
)

type Employee struct {
	EmployeeID     string       `json:"employeeID"`
	PasswordHash   string       `json:"-"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Role           EmployeeRole `json:"role"`
	DepartmentCode string       `json:"departmentCode"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      time.Time    `json:"createdAt"`
	Version        int32        `json:"-"`
}

// EligibleNurse 是可以被编入某个班别的护士，
// CurrentShift 为空表示该护士还没有任何班别绑定
type EligibleNurse struct {
	EmployeeID   string `json:"employeeID"`
	Name         string `json:"name"`
	CurrentShift *Shift `json:"currentShift"`
}
