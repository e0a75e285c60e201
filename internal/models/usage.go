package models

import "time"

// UsageRow is one row of the asset/device-usage reconciliation join, keyed
// by serial number. Device identity fields are already coalesced
// (device-management source first, CMDB fallback).
type UsageRow struct {
	SerialNu    string
	DeviceName  *string
	OS          *string
	OSVersion   *string
	LastUseUser *string
	LastUseTime *time.Time
}

// AssetRow is the authoritative inventory row the usage report starts from.
type AssetRow struct {
	SerialNu      string
	Status        *string
	Barcode       *string
	AssetName     *string
	AssetClass    *string
	SpecModel     *string
	EmpID         *string
	EmpEmail      *string
	EmpUser       *string
	UseDept       *string
	Region        *string
	StorageLoc    *string
	Administrator *string
}

// DevicePullRow is one device record in the export produced from the
// device-management console, with a CMDB fallback. GotFrom records which
// source supplied the row ("mem" or "sn").
type DevicePullRow struct {
	SerialNu    string
	DeviceName  *string
	DeviceOS    *string
	OSVersion   *string
	LastUseUser *string
	LastUseTime *time.Time
	GotFrom     string
}
