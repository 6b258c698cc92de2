package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Tree error codes. These are raised by pkg/tree and re-exported there as sentinels.
const (
	CodeRenderNotImplemented    = "R001"
	CodeUnsupportedMarkupSource = "R002"
	CodeUnsupportedChildType    = "R003"
	CodeUnsupportedAttachment   = "R004"
	CodeAlreadyConstructed      = "R005"
	CodeAlreadyDestroyed        = "R006"
	CodeAlreadyAttached         = "R007"
	CodeAlreadyDetached         = "R008"
	CodeWrongParent             = "R009"
	CodeTypeMismatch            = "R010"
	CodeUnsupportedNodeType     = "R011"
	CodeDuplicateType           = "R012"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Tree Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryLifecycle,
		Message:  "Render method not implemented",
		Detail:   "The attachment does not override Render. Element and Text attachments must be supplied by a platform.",
		DocURL:   "https://retree.dev/docs/errors/R001",
	},
	"R002": {
		Category: CategoryMarkup,
		Message:  "Unsupported markup source",
		Detail:   "A markup source must be an element tag string or a *tree.Type declared with DefineComponent or DefineFragment.",
		DocURL:   "https://retree.dev/docs/errors/R002",
	},
	"R003": {
		Category: CategoryMarkup,
		Message:  "Unsupported child type",
		Detail:   "Children must be nodes, slices of children, nil, primitives, or values implementing fmt.Stringer.",
		DocURL:   "https://retree.dev/docs/errors/R003",
	},
	"R004": {
		Category: CategoryMarkup,
		Message:  "Unsupported attachment instance",
		Detail:   "An attachment must embed exactly one of tree.Fragment, tree.Component, tree.Element, or tree.Text.",
		DocURL:   "https://retree.dev/docs/errors/R004",
	},
	"R005": {
		Category: CategoryLifecycle,
		Message:  "The node was already constructed",
		Detail:   "Construct may run at most once per node.",
		DocURL:   "https://retree.dev/docs/errors/R005",
	},
	"R006": {
		Category: CategoryLifecycle,
		Message:  "The node was already destroyed",
		Detail:   "Destruct requires a constructed node. Destructed nodes are discarded, never reused.",
		DocURL:   "https://retree.dev/docs/errors/R006",
	},
	"R007": {
		Category: CategoryOwnership,
		Message:  "Input node was already attached",
		Detail:   "A node has at most one parent. Remove it from its current parent first.",
		DocURL:   "https://retree.dev/docs/errors/R007",
	},
	"R008": {
		Category: CategoryOwnership,
		Message:  "Input node was already detached",
		Detail:   "The node has no parent to be removed from.",
		DocURL:   "https://retree.dev/docs/errors/R008",
	},
	"R009": {
		Category: CategoryOwnership,
		Message:  "Input node belongs to another parent node",
		Detail:   "Only the owning parent may remove a node.",
		DocURL:   "https://retree.dev/docs/errors/R009",
	},
	"R010": {
		Category: CategoryReconcile,
		Message:  "Input node must have the same type",
		Detail:   "Recycling never changes a node's kind. Discard the node and construct a replacement instead.",
		DocURL:   "https://retree.dev/docs/errors/R010",
	},
	"R011": {
		Category: CategorySerialize,
		Message:  "Unsupported node type",
		Detail:   "Only Fragment, Component, Element, and Text nodes can be serialized.",
		DocURL:   "https://retree.dev/docs/errors/R011",
	},
	"R012": {
		Category: CategoryMarkup,
		Message:  "Duplicate type name",
		Detail:   "A type with this name is already registered.",
		DocURL:   "https://retree.dev/docs/errors/R012",
	},

	// ============================================
	// Export Errors (E060-E069)
	// ============================================

	"E060": {
		Category: CategoryExport,
		Message:  "Snapshot export failed",
		Detail:   "The snapshot could not be written to the configured store.",
		DocURL:   "https://retree.dev/docs/errors/E060",
	},
	"E061": {
		Category: CategoryExport,
		Message:  "Snapshot encoding failed",
		Detail:   "The serialized tree could not be encoded as JSON. State and attribute values must be JSON-encodable.",
		DocURL:   "https://retree.dev/docs/errors/E061",
	},
	"E062": {
		Category: CategoryExport,
		Message:  "Tree not mounted",
		Detail:   "The operation requires a mounted tree.",
		DocURL:   "https://retree.dev/docs/errors/E062",
	},
	"E063": {
		Category: CategoryExport,
		Message:  "Inspector request failed",
		Detail:   "The inspector could not complete the request. The cause is attached.",
		DocURL:   "https://retree.dev/docs/errors/E063",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid retree.json",
		Detail:   "The retree.json configuration file is malformed.",
		DocURL:   "https://retree.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://retree.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is invalid.",
		DocURL:   "https://retree.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Log level must be one of debug, info, warn, error.",
		DocURL:   "https://retree.dev/docs/errors/E123",
	},

	// ============================================
	// CLI and Document Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryCLI,
		Message:  "Document not found",
		Detail:   "The markup document does not exist or cannot be read.",
		DocURL:   "https://retree.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Invalid document syntax",
		Detail:   "The markup document is not valid YAML or JSON.",
		DocURL:   "https://retree.dev/docs/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Component not found",
		Detail:   "The document references a component or fragment that is not registered.",
		DocURL:   "https://retree.dev/docs/errors/E143",
	},
	"E145": {
		Category: CategoryCLI,
		Message:  "Invalid document node",
		Detail:   "A document node must be a scalar or a mapping with exactly one of tag, component, fragment.",
		DocURL:   "https://retree.dev/docs/errors/E145",
	},
	"E146": {
		Category: CategoryCLI,
		Message:  "Watch failed",
		Detail:   "The file watcher could not be started or reported an error.",
		DocURL:   "https://retree.dev/docs/errors/E146",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
