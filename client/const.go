package client

// API endpoints.
const (
	DefaultBaseURL = "https://mobileapi.gdhv-iot.com/api"
	DefaultAuthURL = "https://gdhvb2c.b2clogin.com/tfp/gdhvb2c.onmicrosoft.com/B2C_1A_DimplexControlSignupSignin/oauth2/v2.0"
)

// OAuth2 parameters of the official mobile app. The API only accepts
// requests made on behalf of this client id.
const (
	ClientID    = "6c983ca3-506e-4933-8993-0e18e6a24bbd"
	Scope       = "https://gdhvb2c.onmicrosoft.com/Mobile/read offline_access openid profile"
	RedirectURI = "msal6c983ca3-506e-4933-8993-0e18e6a24bbd://auth/"
	PolicyName  = "B2C_1A_DimplexControlSignupSignin"
)

// Identification headers expected by the mobile API.
const (
	headerUserAgent          = "Dimplex Control/79810 CFNetwork/3860.300.31 Darwin/25.2.0"
	headerAppName            = "DimplexControl"
	headerAppVersion         = "2.21.0"
	headerDeviceOS           = "iOS"
	headerDeviceVersion      = "26.2.1"
	headerDeviceManufacturer = "Apple"
	headerDeviceModel        = "iPhone18,1"
)
