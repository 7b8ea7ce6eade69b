package service

const maxIssueAttempts = 3

const (
	msgCardNotFound       = "Card not found"
	msgSocialNotFound     = "Social link not found"
	msgInvalidCode        = "Invalid code"
	msgCodeRequired       = "code is required"
	msgIconExists         = "Icon already exists"
	msgAvatarConflict     = "Avatar is being replaced concurrently"
	msgFileEmpty          = "file is empty"
	msgFileTooLargeFmt    = "file exceeds maximum size of %d bytes"
	msgTypeNotAllowedFmt  = "content type %s is not allowed"
	msgTypeMismatchFmt    = "declared content type %s does not match file content %s"
	msgInvalidSocialType  = "invalid social link type"
	msgStorageFailed      = "Storage operation failed"
	msgTokenIssueFailed   = "Failed to issue token"
	msgCodeGenerateFailed = "Failed to generate code"

	errCreateCardFmt     = "failed to create card: %w"
	errRegenerateCodeFmt = "failed to regenerate code: %w"
	errDeleteCardFmt     = "failed to delete card: %w"
	errUploadObjectFmt   = "failed to upload object %s: %w"
	errDeleteObjectFmt   = "failed to delete object %s: %w"
	errPresignObjectFmt  = "failed to presign object %s: %w"

	metaReused      = "reused"
	metaDeactivated = "deactivated"
	metaFields      = "fields"
	metaAssetCount  = "asset_count"
)
