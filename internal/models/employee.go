package models

// EmployeeManager is one employee's band and resolved manager identity,
// keyed by lowercased work email. Used by the usage report match flag.
type EmployeeManager struct {
	EmployeeEmail string
	EmployeeBand  *string
	ManagerEmail  *string
	ManagerBand   *string
}
