package config

// Version is the current Astra toolchain version.
var Version = "0.1.0"

// SourceFileExt is the canonical source file extension.
const SourceFileExt = ".astra"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".astra"}

// TrimSourceExt removes the source extension from a filename, if present.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// HasSourceExt reports whether path ends with the recognized source extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// Keywords recognized by the lexer.
var Keywords = map[string]bool{
	"module": true, "fn": true, "let": true, "if": true, "else": true,
	"match": true, "test": true, "using": true, "effects": true,
	"requires": true, "ensures": true, "public": true, "import": true,
	"trait": true, "impl": true, "effect": true, "type": true,
	"enum": true, "record": true, "true": true, "false": true,
	"for": true, "while": true, "in": true, "break": true,
	"continue": true, "return": true, "perform": true,
}

// EffectCapabilityNames are the receiver names routed to the capability table.
var EffectCapabilityNames = []string{"Console", "Fs", "Net", "Clock", "Rand", "Env"}

// Manifest and cache file layout, per the external-collaborator contract.
const (
	ManifestFileName = "astra.toml"
	CacheDirName     = ".astra-cache"
	CacheFileName    = "check-cache.json"
)
