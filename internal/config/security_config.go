// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityStaff                       // Staff access token required
)

// Route names registered on the HTTP router.
const (
	RouteHealth          = "Health"
	RouteLogin           = "Login"
	RouteListVehicles    = "ListVehicles"
	RouteAddVehicle      = "AddVehicle"
	RouteReturnVehicle   = "ReturnVehicle"
	RouteRegisterCust    = "RegisterCustomer"
	RouteGetCustomer     = "GetCustomer"
	RouteProcessRental   = "ProcessRental"
	RouteListTransaction = "ListTransactions"
	RouteReport          = "TransactionReport"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	RouteHealth: SecurityPublic,
	RouteLogin:  SecurityPublic,

	// Fleet
	RouteListVehicles:  SecurityPublic,
	RouteAddVehicle:    SecurityStaff,
	RouteReturnVehicle: SecurityPublic,

	// Customers and rentals
	RouteRegisterCust:  SecurityPublic,
	RouteGetCustomer:   SecurityPublic,
	RouteProcessRental: SecurityPublic,

	// Reporting
	RouteListTransaction: SecurityStaff,
	RouteReport:          SecurityStaff,
}

// GetSecurityLevel returns the security level for a route.
// Unknown routes require a staff token.
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityStaff
}
