package handler

const (
	paramID       = "id"
	paramSocialID = "social_id"
	queryLimit    = "limit"

	formFieldFile     = "file"
	formFieldSocialID = "social_id"

	tokenTypeBearer = "bearer"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "Invalid request body"
	msgBodyTooLarge            = "Request body too large"
	msgInvalidIDFmt            = "%s must be a positive integer"
	msgInvalidLimit            = "limit must be a positive integer"
	msgFileRequired            = "file is required"
	msgFileUnreadable          = "file could not be read"
	msgFileTooLargeFmt         = "file exceeds maximum size of %d bytes"
	msgCardAccessDenied        = "Token does not grant access to this card"
)
