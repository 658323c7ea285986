package devbackend

// APIPrefix is the mount point of every route. Clients use http://host:port/api as their base URL.
const APIPrefix = "/api"

const (
	AdminLoginRoute      = APIPrefix + "/admin/login/{$}"
	TokenRefreshRoute    = APIPrefix + "/token/refresh/{$}"
	ProfileRoute         = APIPrefix + "/profile/{$}"
	LogoutRoute          = APIPrefix + "/logout/{$}"
	AdmissionsRoute      = APIPrefix + "/admissions/{$}"
	AdmissionDetailRoute = APIPrefix + "/admissions/{id}/{$}"
	AdmissionReviewRoute = APIPrefix + "/admissions/{id}/review/{$}"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgNotApproved        = "User is not approved yet"
	msgNoCredentials      = "Authentication credentials were not provided."
	msgInvalidAccess      = "Given token not valid for any token type"
	msgInvalidRefresh     = "Token is invalid or expired"
	msgRefreshRequired    = "Refresh token is required."
	msgLoggedOut          = "Successfully logged out."
	msgForbidden          = "Forbidden"
	msgNotFound           = "No AdmissionApplication matches the given query."
	msgUserInactive       = "User is inactive"
	codeTokenNotValid     = "token_not_valid"
)
