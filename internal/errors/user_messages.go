package errors

// User-friendly error messages
const (
	MsgSearchUnavailable   = "We're unable to load listings right now. Please try again in a few minutes."
	MsgRateLimited         = "You're searching too quickly! Please wait a moment and try again."
	MsgInvalidParameters   = "The provided parameters are invalid. Please check your input and try again."
	MsgInvalidCachePattern = "Cache patterns may only contain letters, digits, ':', '_' and '-', with an optional trailing '*'."
	MsgUnauthorized        = "Please sign in to continue."
	MsgForbidden           = "You don't have permission to do that."
	MsgRequestTimeout      = "The request took too long. Please try again."
	MsgInternalError       = "Something went wrong on our end. Please try again later."
)
