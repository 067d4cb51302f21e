package api

const (
	// HeaderSignature carries the hex-encoded HMAC-SHA256 of the timestamp header
	HeaderSignature = "x-signature"

	// HeaderTimestamp is the message the signature is computed over
	HeaderTimestamp = "x-timestamp"

	// HeaderEnvironment tags the request origin; informational only
	HeaderEnvironment = "x-environment"

	// DefaultEnvironment is assumed when the caller omits the environment header
	DefaultEnvironment = "production"

	// FormFileField is the multipart field name the PDF must be sent under
	FormFileField = "file"
)
