package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramID    = "id"
	paramToken = "token"

	queryDays  = "days"
	queryLimit = "limit"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidID               = "invalid id"
	msgInvalidCredentials      = "invalid email or password"
	msgGenerateTokenFail       = "failed to generate token"
	msgNotFound                = "resource not found"
	msgInvitationClosed        = "invitation closed"
	msgMaxSubmissionsPositive  = "max_submissions must be positive"
	msgExpiryInFuture          = "expires_at must be in the future"
	msgInvitedEmailRequired    = "invited_email is required unless allow_public is set"
)
