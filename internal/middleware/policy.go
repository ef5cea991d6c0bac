package middleware

import "invoicing/internal/model"

// Permission codes, one per (resource, action) pair.
const (
	PermUsersRead         = "users.read"
	PermUsersWrite        = "users.write"
	PermUsersDelete       = "users.delete"
	PermCompaniesRead     = "companies.read"
	PermCompaniesWrite    = "companies.write"
	PermClientsRead       = "clients.read"
	PermClientsWrite      = "clients.write"
	PermBankAccountsRead  = "bankaccounts.read"
	PermBankAccountsWrite = "bankaccounts.write"
	PermBankMappingsWrite = "bankmappings.write"
	PermInvoicesRead      = "invoices.read"
	PermInvoicesWrite     = "invoices.write"
	PermInvoicesDelete    = "invoices.delete"
	PermReportsRead       = "reports.read"
)

var readPermissions = []string{
	PermUsersRead,
	PermCompaniesRead,
	PermClientsRead,
	PermBankAccountsRead,
	PermInvoicesRead,
	PermReportsRead,
}

// rolePermissions is the single capability table consulted for every
// protected endpoint. Admin holds everything; InvoiceCreator adds invoice,
// client and bank-mapping writes on top of read access; ViewOnly is
// read-only across the board.
var rolePermissions = map[string]map[string]bool{
	model.RoleAdmin: permissionSet(append([]string{
		PermUsersWrite,
		PermUsersDelete,
		PermCompaniesWrite,
		PermClientsWrite,
		PermBankAccountsWrite,
		PermBankMappingsWrite,
		PermInvoicesWrite,
		PermInvoicesDelete,
	}, readPermissions...)),
	model.RoleInvoiceCreator: permissionSet(append([]string{
		PermClientsWrite,
		PermBankMappingsWrite,
		PermInvoicesWrite,
		PermInvoicesDelete,
	}, readPermissions...)),
	model.RoleViewOnly: permissionSet(readPermissions),
}

func permissionSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

// RoleHasPermission is the policy-evaluation function: role × permission
// code → allowed.
func RoleHasPermission(role, permission string) bool {
	return rolePermissions[role][permission]
}
