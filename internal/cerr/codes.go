package cerr

// Source identifies the category of an error code. The numeric layout
// (source in the top byte, code in the lower three) is fixed by the
// published C header and must never change across patch releases.
type Source uint32

const (
	SourceNone   Source = 0
	SourceLib    Source = 1
	SourceServer Source = 2
	SourceSSL    Source = 3
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceLib:
		return "lib"
	case SourceServer:
		return "server"
	case SourceSSL:
		return "ssl"
	default:
		return "unknown"
	}
}

// Code is the stable numeric error contract exposed across the boundary.
// Callers receive these values as plain integers; the layout is
// (source << 24) | code.
type Code uint32

// Source extracts the category of a Code.
func (c Code) Source() Source {
	return Source(uint32(c) >> 24)
}

// Ok and the lib/server/ssl error codes. Values mirror the published
// header exactly; new codes may only be appended, never renumbered.
const (
	Ok Code = 0

	ErrLibBadParams          = Code(uint32(SourceLib)<<24 | 1)
	ErrLibNoStreams          = Code(uint32(SourceLib)<<24 | 2)
	ErrLibUnableToInit       = Code(uint32(SourceLib)<<24 | 3)
	ErrLibHostResolution     = Code(uint32(SourceLib)<<24 | 5)
	ErrLibNoHostsAvailable   = Code(uint32(SourceLib)<<24 | 10)
	ErrLibIndexOutOfBounds   = Code(uint32(SourceLib)<<24 | 11)
	ErrLibInvalidItemCount   = Code(uint32(SourceLib)<<24 | 12)
	ErrLibInvalidValueType   = Code(uint32(SourceLib)<<24 | 13)
	ErrLibRequestTimedOut    = Code(uint32(SourceLib)<<24 | 14)
	ErrLibCallbackAlreadySet = Code(uint32(SourceLib)<<24 | 16)
	ErrLibNameDoesNotExist   = Code(uint32(SourceLib)<<24 | 18)
	ErrLibNullValue          = Code(uint32(SourceLib)<<24 | 20)
	ErrLibNotImplemented     = Code(uint32(SourceLib)<<24 | 21)
	ErrLibUnableToConnect    = Code(uint32(SourceLib)<<24 | 22)
	ErrLibUnableToClose      = Code(uint32(SourceLib)<<24 | 23)
	ErrLibNoPagingState      = Code(uint32(SourceLib)<<24 | 24)
	ErrLibInvalidFutureType  = Code(uint32(SourceLib)<<24 | 27)
	ErrLibInternalError      = Code(uint32(SourceLib)<<24 | 28)
	ErrLibInvalidData        = Code(uint32(SourceLib)<<24 | 30)
	ErrLibInvalidState       = Code(uint32(SourceLib)<<24 | 32)

	ErrServerServerError    = Code(uint32(SourceServer)<<24 | 0x0000)
	ErrServerProtocolError  = Code(uint32(SourceServer)<<24 | 0x000A)
	ErrServerBadCredentials = Code(uint32(SourceServer)<<24 | 0x0100)
	ErrServerUnavailable    = Code(uint32(SourceServer)<<24 | 0x1000)
	ErrServerOverloaded     = Code(uint32(SourceServer)<<24 | 0x1001)
	ErrServerTruncateError  = Code(uint32(SourceServer)<<24 | 0x1003)
	ErrServerWriteTimeout   = Code(uint32(SourceServer)<<24 | 0x1100)
	ErrServerReadTimeout    = Code(uint32(SourceServer)<<24 | 0x1200)
	ErrServerReadFailure    = Code(uint32(SourceServer)<<24 | 0x1300)
	ErrServerWriteFailure   = Code(uint32(SourceServer)<<24 | 0x1500)
	ErrServerSyntaxError    = Code(uint32(SourceServer)<<24 | 0x2000)
	ErrServerUnauthorized   = Code(uint32(SourceServer)<<24 | 0x2100)
	ErrServerInvalidQuery   = Code(uint32(SourceServer)<<24 | 0x2200)
	ErrServerConfigError    = Code(uint32(SourceServer)<<24 | 0x2300)
	ErrServerAlreadyExists  = Code(uint32(SourceServer)<<24 | 0x2400)
	ErrServerUnprepared     = Code(uint32(SourceServer)<<24 | 0x2500)

	ErrSSLInvalidCert       = Code(uint32(SourceSSL)<<24 | 1)
	ErrSSLInvalidPrivateKey = Code(uint32(SourceSSL)<<24 | 2)
	ErrSSLNoPeerCert        = Code(uint32(SourceSSL)<<24 | 3)
	ErrSSLInvalidPeerCert   = Code(uint32(SourceSSL)<<24 | 4)
	ErrSSLIdentityMismatch  = Code(uint32(SourceSSL)<<24 | 5)
)

// codeDescs holds the human-readable description per code, returned by
// the message-retrieval call when a future carries no richer message.
var codeDescs = map[Code]string{
	Ok:                       "",
	ErrLibBadParams:          "Bad parameters",
	ErrLibNoStreams:          "No streams available",
	ErrLibUnableToInit:       "Unable to initialize",
	ErrLibHostResolution:     "Unable to resolve host",
	ErrLibNoHostsAvailable:   "No hosts available",
	ErrLibIndexOutOfBounds:   "Index out of bounds",
	ErrLibInvalidItemCount:   "Invalid item count",
	ErrLibInvalidValueType:   "Invalid value type",
	ErrLibRequestTimedOut:    "Request timed out",
	ErrLibCallbackAlreadySet: "Callback already set",
	ErrLibNameDoesNotExist:   "No item with that name",
	ErrLibNullValue:          "NULL value specified",
	ErrLibNotImplemented:     "Not implemented",
	ErrLibUnableToConnect:    "Unable to connect",
	ErrLibUnableToClose:      "Unable to close",
	ErrLibNoPagingState:      "No paging state",
	ErrLibInvalidFutureType:  "Invalid future type",
	ErrLibInternalError:      "Internal error",
	ErrLibInvalidData:        "Invalid data",
	ErrLibInvalidState:       "Invalid state",

	ErrServerServerError:    "Server error",
	ErrServerProtocolError:  "Protocol error",
	ErrServerBadCredentials: "Bad credentials",
	ErrServerUnavailable:    "Not enough replicas available",
	ErrServerOverloaded:     "Coordinator overloaded",
	ErrServerTruncateError:  "Truncate error",
	ErrServerWriteTimeout:   "Write timeout",
	ErrServerReadTimeout:    "Read timeout",
	ErrServerReadFailure:    "Read failure",
	ErrServerWriteFailure:   "Write failure",
	ErrServerSyntaxError:    "Syntax error",
	ErrServerUnauthorized:   "Unauthorized",
	ErrServerInvalidQuery:   "Invalid query",
	ErrServerConfigError:    "Configuration error",
	ErrServerAlreadyExists:  "Already exists",
	ErrServerUnprepared:     "Unprepared",

	ErrSSLInvalidCert:       "Unable to load certificate",
	ErrSSLInvalidPrivateKey: "Unable to load private key",
	ErrSSLNoPeerCert:        "No peer certificate",
	ErrSSLInvalidPeerCert:   "Invalid peer certificate",
	ErrSSLIdentityMismatch:  "Certificate does not match host or IP",
}

// Desc returns the fixed description for a code.
// Unknown codes report themselves as such rather than failing.
func (c Code) Desc() string {
	if d, ok := codeDescs[c]; ok {
		return d
	}
	return "Unknown error code"
}
