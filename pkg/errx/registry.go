package errx

// RegistryEntry describes a registered error code.
type RegistryEntry struct {
	Code        string
	Description string
}

// Error codes follow a stable 5-digit scheme where the first two digits are the
// domain and the last three digits are reserved for subcodes.
const (
	CodeCLI        = "70000"
	CodeConfig     = "71000"
	CodeCredential = "72000"
	CodeArtifact   = "73000"
	CodeMetadata   = "74000"
	CodeTransport  = "75000"
	CodeAuth       = "76000"
	CodeConflict   = "77000"
	CodeServer     = "78000"
)

const (
	DescCLI        = "CLI/argument validation error"
	DescConfig     = "Configuration error"
	DescCredential = "Credential resolution error"
	DescArtifact   = "Artifact I/O error"
	DescMetadata   = "Package metadata error"
	DescTransport  = "Transport error"
	DescAuth       = "Authentication error"
	DescConflict   = "File already exists"
	DescServer     = "Registry server error"
)

var registryMap = map[string]string{
	CodeCLI:        DescCLI,
	CodeConfig:     DescConfig,
	CodeCredential: DescCredential,
	CodeArtifact:   DescArtifact,
	CodeMetadata:   DescMetadata,
	CodeTransport:  DescTransport,
	CodeAuth:       DescAuth,
	CodeConflict:   DescConflict,
	CodeServer:     DescServer,
}

// DescriptionFor returns the registry description for a code.
func DescriptionFor(code string) (string, bool) {
	desc, ok := registryMap[code]
	return desc, ok
}
