package importer

import "github.com/crucial707/asset-recon/internal/upsert"

// Rename maps translate each source's header schema to canonical column
// names. The maps double as the declared source schema: a header missing
// from an export is a configuration error (etl.Normalize).

// cmdbRename covers the CMDB computer export. "Site Code " carries a
// trailing space in the source file, and "City.1" is the export's second
// City column (excel.ReadSheet suffixes repeated headers).
var cmdbRename = map[string]string{
	"Name":                  "name",
	"Manufacturer":          "manufacturer",
	"Class":                 "class",
	"Serial number":         "serial_number",
	"Operating System":      "operating_system",
	"OS Version":            "os_version",
	"City":                  "city",
	"City.1":                "city_1",
	"User ID":               "user_id",
	"Active":                "active",
	"VIP":                   "vip",
	"Title":                 "title",
	"Last login time":       "last_login_time",
	"Mobile phone":          "mobile_phone",
	"Employee ID":           "employee_id",
	"Business Unit":         "business_unit",
	"Is Virtual":            "is_virtual",
	"Is deleted":            "is_deleted",
	"Most recent discovery": "most_recent_discovery",
	"Last Logged User":      "last_logged_user",
	"Last logged in user":   "last_logged_in_user",
	"Location":              "location",
	"Site Code ":            "site_code",
}

// inventoryRename covers the bilingual inventory console export.
var inventoryRename = map[string]string{
	"状态":          "status",
	"用户确认":        "confirmation",
	"PO No":       "po_number",
	"资产条码":        "barcode",
	"资产名称":        "asset_name",
	"成本中心(charge)": "cost_ctr",
	"资产类别":        "asset_class",
	"规格型号":        "spec_model",
	"SN号":         "serial_nu",
	"金额":          "amount",
	"使用公司":        "use_comp",
	"使用部门":        "use_dept",
	"BusinessUnit": "unit",
	"员工号":         "emp_id",
	"员工邮箱":        "emp_email",
	"使用人":         "emp_user",
	"在职状态":        "emp_status",
	"区域":          "region",
	"存放地点":        "storage_loc",
	"管理员":         "administrator",
	"所属公司":        "comp",
	"购入时间":        "purchase_dt",
	"供应商":         "supplier",
	"备注":          "remark",
}

// deviceRename covers the device-management console CSV.
var deviceRename = map[string]string{
	"Device ID":        "device_id",
	"Device name":      "device_name",
	"Managed by":       "managed_by",
	"Ownership":        "ownership",
	"Compliance":       "compliance",
	"OS":               "os",
	"OS version":       "os_version",
	"Primary user UPN": "last_use_user",
	"Last check-in":    "last_use_time",
	"Serial number":    "serial_nu",
}

// employeeRename covers the HR employee spreadsheet.
var employeeRename = map[string]string{
	"Employee ID":          "emp_id",
	"Legal Name":           "emp_name",
	"Email - Primary Work": "emp_email",
	"Domain Account":       "domain_account",
	"Band":                 "band",
	"Manager 1 ID":         "mgr_id",
	"Division/Dept.":       "division",
	"Type":                 "emp_type",
}

// managerChainRename covers the employee->manager chain export.
var managerChainRename = map[string]string{
	"employee_id":        "emp_id",
	"worker_name":        "emp_name",
	"band":               "job_lvl",
	"termination_date":   "term_date",
	"manager_id":         "mgr_id",
	"manager_legal_name": "mgr_name",
	"Manager1ID":         "lvl1_mgr_id",
	"Manager1Name":       "lvl1_mgr_name",
	"Manager2ID":         "lvl2_mgr_id",
	"Manager2Name":       "lvl2_mgr_name",
}

// descriptors. CheckColumns mirror the writable columns so an import that
// observes no change skips the row instead of churning updated_time; see
// DESIGN.md for the policy choice.

func cmdbDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"serial_number", "name", "manufacturer", "class", "operating_system",
		"os_version", "city", "city_1", "user_id", "active", "vip", "title", "last_login_time",
		"mobile_phone", "employee_id", "business_unit", "is_virtual", "is_deleted",
		"most_recent_discovery", "last_logged_user", "last_logged_in_user", "location", "site_code"}
	return upsert.Descriptor{
		Table:        "cmdb_computer",
		KeyColumn:    "serial_number",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}

func sysMappingDescriptor(updatedBy string) upsert.Descriptor {
	return upsert.Descriptor{
		Table:        "computer_sys_mapping",
		KeyColumn:    "sys_id",
		Columns:      []string{"sys_id", "serial_number"},
		CheckColumns: []string{"serial_number"},
		UpdatedBy:    updatedBy,
	}
}

func inventoryDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"serial_nu", "status", "confirmation", "po_number", "barcode", "asset_name",
		"cost_ctr", "asset_class", "spec_model", "amount", "use_comp", "use_dept", "unit",
		"emp_id", "emp_email", "emp_user", "emp_status", "region", "storage_loc",
		"administrator", "comp", "purchase_dt", "supplier", "remark"}
	return upsert.Descriptor{
		Table:        "asset_info",
		KeyColumn:    "serial_nu",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}

func deviceUsageDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"device_id", "device_name", "managed_by", "ownership", "compliance",
		"os", "os_version", "last_use_user", "last_use_time", "serial_nu"}
	return upsert.Descriptor{
		Table:        "device_usage",
		KeyColumn:    "device_id",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}

func employeeDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"emp_id", "emp_name", "emp_email", "domain_account", "band",
		"mgr_id", "division", "emp_type"}
	return upsert.Descriptor{
		Table:        "employee_info",
		KeyColumn:    "emp_id",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}

func managerChainDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"emp_id", "emp_name", "job_lvl", "term_date", "mgr_id", "mgr_name",
		"lvl1_mgr_id", "lvl1_mgr_name", "lvl2_mgr_id", "lvl2_mgr_name"}
	return upsert.Descriptor{
		Table:        "emp_mgr_mapping",
		KeyColumn:    "emp_id",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}

// TempEmployeeDescriptor is exported for the temp-employee report pipeline,
// which runs the snapshot differ before upserting.
func TempEmployeeDescriptor(updatedBy string) upsert.Descriptor {
	cols := []string{"employee_id", "employee_name", "employee_email", "band", "termination_date",
		"manager_id", "manager_name", "manager_email",
		"lvl1_manager_id", "lvl1_manager_name", "lvl1_manager_email",
		"lvl2_manager_id", "lvl2_manager_name", "lvl2_manager_email",
		"first_snapshot", "last_change"}
	return upsert.Descriptor{
		Table:        "temp_employee",
		KeyColumn:    "employee_id",
		Columns:      cols,
		CheckColumns: cols[1:],
		UpdatedBy:    updatedBy,
	}
}
