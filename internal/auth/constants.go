package auth

const (
	ContextKeyCardID    = "card_id"
	ContextKeyClaims    = "token_claims"
	ContextKeyTokenType = "token_type"

	// CookieName carries "Bearer <token>" for the edit surface.
	CookieName = "Authorization"

	headerAuthorization = "Authorization"
	headerAdminKey      = "X-Admin-Key"

	bearerScheme    = "bearer"
	bearerPrefix    = "Bearer "
	authHeaderParts = 2

	adminSubject = "admin"
)

const (
	msgCodeLengthPositive      = "code length must be positive"
	msgGenerateRandomBytes     = "failed to generate random bytes: %w"
	msgNotAuthenticated        = "Not authenticated"
	msgInvalidToken            = "Invalid token"
	msgTokenExpired            = "Token expired"
	msgMissingAdminKey         = "missing admin key"
	msgInvalidAdminKey         = "invalid admin key"
	msgAdminKeyHashEmpty       = "admin key hash is empty"
	msgInvalidCardIDCtx        = "invalid card ID in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgUnsupportedAlgorithm    = "unsupported signing algorithm %q"
	msgSecretRequired          = "token secret is required"
	msgTTLPositive             = "token ttl must be positive"
	msgTokenTypeRequired       = "token type is required"
	msgSignTokenFailed         = "failed to sign token: %w"
)

// TokenType is the discriminator carried in every token's "type" claim.
type TokenType string

const (
	TokenTypeEditAccess  TokenType = "edit_access"
	TokenTypeAdminAccess TokenType = "admin_access"
)
