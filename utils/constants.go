package utils

// Application constants
const (
	AppName = "Threadly"

	// Default pagination limit
	DefaultPaginationLimit = 12

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Cart line limits
	MinCartQuantity = 1
	MaxCartQuantity = 10

	// Password length bounds
	MinPasswordLength = 8
	MaxPasswordLength = 64

	// Wrong OTP guesses allowed before the code is burned
	MaxOTPAttempts = 5

	// Header and session key carrying the guest cart id
	GuestSessionHeader = "X-Guest-Session-Id"
	GuestSessionKey    = "guest_session_id"
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrLoginRequired      = "Please login for access"
	ErrInvalidOTP         = "The OTP you entered is incorrect"
	ErrOTPExpired         = "OTP expired or not requested. Please request a new one"
	ErrTooManyAttempts    = "Too many incorrect attempts. Please request a new OTP"
	ErrInternalServer     = "Something went wrong. Please try again"
	ErrGuestSession       = "Guest session id is required"
	ErrOTPCooldown        = "Please wait before requesting another OTP"
)

// Success messages
const (
	MsgLoginSuccess  = "Login successful"
	MsgLogoutSuccess = "Logout successful"
	MsgOTPSent       = "OTP sent to your email"

	MsgOTPSentIfAccount = "If an account exists for this email, an OTP has been sent"
	MsgPasswordReset    = "Password reset successful"
)
