package errors

// Error codes shared between handlers and the i18n layer. The string
// values double as translation keys.
const (
	ErrInternalServer = "internal_server_error"
	ErrInvalidParam   = "invalid_param"
	ErrNotFound       = "not_found"
	ErrForbidden      = "forbidden"
	ErrUnauthorized   = "unauthorized"

	ErrUserNotFound      = "user_not_found"
	ErrUserDisabled      = "user_disabled"
	ErrUsernameTaken     = "username_taken"
	ErrWrongCredentials  = "wrong_credentials"
	ErrRegisterDisabled  = "register_disabled"
	ErrPasswordTooShort  = "password_too_short"
	ErrTokenInvalid      = "token_invalid"
	ErrPermissionDenied  = "permission_denied"
	ErrRateLimitExceeded = "rate_limit_exceeded"

	ErrQuotaExceeded  = "storage_quota_exceeded"
	ErrFileTooLarge   = "file_too_large"
	ErrBadExtension   = "bad_file_extension"
	ErrUploadFailed   = "upload_failed"
	ErrProjectMissing = "project_not_found"
	ErrMockupMissing  = "mockup_not_found"
	ErrComposeFailed  = "mockup_compose_failed"

	ErrMessageSelf     = "message_self"
	ErrFollowSelf      = "follow_self"
	ErrCategoryInUse   = "category_in_use"
	ErrOptionUnknown   = "option_unknown"
	ErrOptionBadValue  = "option_bad_value"
	ErrDatabaseFailure = "database_failure"
)
