package mountebank

// Wire keys of the Mountebank stub format.
const (
	KeyPredicates = "predicates"
	KeyResponses  = "responses"
	KeyAnd        = "and"
	KeyEquals     = "equals"
	KeyMatches    = "matches"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyQuery      = "query"
	KeyHeaders    = "headers"
	KeyBody       = "body"
	KeyIs         = "is"
	KeyStatusCode = "statusCode"
	KeyBehaviors  = "_behaviors"
	KeyWait       = "wait"
)

// Wire keys of the Mountebank imposter format.
const (
	KeyPort     = "port"
	KeyProtocol = "protocol"
	KeyName     = "name"
	KeyStubs    = "stubs"
)

// ProtocolHTTP is the only imposter protocol produced.
const ProtocolHTTP = "http"

// FileType is the suffix of generated stub template files.
const FileType = ".ejs"

// indent is the pretty-print indentation of rendered documents.
const indent = "  "
