package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Discovery Errors (A001-A009)
	// ============================================

	"A001": {
		Category: CategoryDiscovery,
		Message:  "Component attribute value is missing",
		Detail:   "A node matched the component attribute selector but carries no value for it. The pass stops at this node.",
		DocURL:   "https://abs.vango.dev/errors/A001",
	},
	"A002": {
		Category: CategoryDiscovery,
		Message:  "Component is not registered",
		Detail:   "A node names a component tag for which no constructor was registered. The pass stops at this node.",
		DocURL:   "https://abs.vango.dev/errors/A002",
	},

	// ============================================
	// Config Errors (A010-A019)
	// ============================================

	"A010": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://abs.vango.dev/errors/A010",
	},
	"A011": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No abs.json or abs.yaml was found.",
		DocURL:   "https://abs.vango.dev/errors/A011",
	},
	"A012": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed range.",
		DocURL:   "https://abs.vango.dev/errors/A012",
	},

	// ============================================
	// Document Errors (A020-A029)
	// ============================================

	"A020": {
		Category: CategoryDocument,
		Message:  "Document could not be loaded",
		Detail:   "The referenced document could not be read from its source.",
		DocURL:   "https://abs.vango.dev/errors/A020",
	},
	"A021": {
		Category: CategoryDocument,
		Message:  "Document could not be parsed",
		Detail:   "The markup could not be parsed as HTML.",
		DocURL:   "https://abs.vango.dev/errors/A021",
	},
	"A022": {
		Category: CategoryDocument,
		Message:  "Unsupported document source",
		Detail:   "Documents can be loaded from local paths, http(s) URLs and s3://bucket/key references.",
		DocURL:   "https://abs.vango.dev/errors/A022",
	},

	// ============================================
	// CLI Errors (A030-A039)
	// ============================================

	"A030": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		Detail:   "The command was called with missing or conflicting arguments.",
		DocURL:   "https://abs.vango.dev/errors/A030",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
