package domain

import "time"

// Admin credential constants shared by the request gate and the login flow.
const (
	// AdminCookieName is the cookie carrying the admin static code.
	AdminCookieName = "admin_code"

	// AdminCookieMaxAge is how long a browser keeps the admin cookie.
	AdminCookieMaxAge = 24 * time.Hour

	// DefaultAdminCode is used when no admin code is configured.
	DefaultAdminCode = "dreem2025"
)

// Route prefixes recognized by the request gate.
const (
	ExpiredRoute    = "/expired"
	AdminBaseRoute  = "/admin-panel"
	AdminLoginRoute = AdminBaseRoute + "/login"
	APIRoutePrefix  = "/api"
)

// ValidAdminCode reports whether code survives a round trip through the
// admin cookie unchanged: printable ASCII without '"', ';' or '\'.
func ValidAdminCode(code string) bool {
	for i := 0; i < len(code); i++ {
		b := code[i]
		if b < 0x20 || b >= 0x7f || b == '"' || b == ';' || b == '\\' {
			return false
		}
	}
	return true
}
