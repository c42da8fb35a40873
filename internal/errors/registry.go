package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Registered codes.
const (
	CodeRenderFailed       = "E100"
	CodeRenderPanic        = "E101"
	CodeTaskFailed         = "E102"
	CodeTaskPanic          = "E103"
	CodeInvariant          = "E110"
	CodeFrameDiff          = "E111"
	CodeRangeMarkers       = "E112"
	CodeRootRemoved        = "E113"
	CodeMismatchElement    = "E120"
	CodeMismatchText       = "E121"
	CodeMismatchExcess     = "E122"
	CodeDataMissing        = "E123"
	CodeDataInvalid        = "E124"
	CodeMarkerUnpaired     = "E125"
	CodeRegionStale        = "E126"
	CodeModuleNotFound     = "E130"
	CodeModuleLoadFailed   = "E131"
	CodeFrameResolveFailed = "E140"
	CodeFrameCancelled     = "E141"
	CodeFrameMarkers       = "E142"
	CodeConfigNotFound     = "E160"
	CodeConfigInvalid      = "E161"
	CodeConfigFormat       = "E162"
	CodeUnknownDemo        = "E170"
	CodeInputUnreadable    = "E171"
)

const docBase = "https://rmx.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render and task errors (E100-E109)
	// ============================================

	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Component render failed",
		Detail:   "A component returned an error while rendering. The nearest error boundary shows its fallback; without one the error reaches the root error channel.",
		DocURL:   docBase + CodeRenderFailed,
	},
	CodeRenderPanic: {
		Category: CategoryRender,
		Message:  "Component render panicked",
		Detail:   "A component's setup or render function panicked. The panic was recovered and treated as a render error.",
		DocURL:   docBase + CodeRenderPanic,
	},
	CodeTaskFailed: {
		Category: CategoryTask,
		Message:  "Task failed",
		Detail:   "A task queued with QueueTask returned an error. Remaining tasks still ran.",
		DocURL:   docBase + CodeTaskFailed,
	},
	CodeTaskPanic: {
		Category: CategoryTask,
		Message:  "Task panicked",
		Detail:   "A task queued with QueueTask panicked. Remaining tasks still ran.",
		DocURL:   docBase + CodeTaskPanic,
	},

	// ============================================
	// Contract violations (E110-E119)
	// ============================================

	CodeInvariant: {
		Category: CategoryInvariant,
		Message:  "Reconciler invariant violated",
		Detail:   "Two committed nodes with incompatible shapes reached the same diff branch.",
		DocURL:   docBase + CodeInvariant,
	},
	CodeFrameDiff: {
		Category: CategoryInvariant,
		Message:  "Frame nodes cannot be diffed",
		Detail:   "A frame region is owned by its frame host. Give the frame a different key to replace it.",
		DocURL:   docBase + CodeFrameDiff,
	},
	CodeRangeMarkers: {
		Category: CategoryInvariant,
		Message:  "Range root markers are not siblings",
		Detail:   "A range root needs two comment markers with the same parent node.",
		DocURL:   docBase + CodeRangeMarkers,
	},
	CodeRootRemoved: {
		Category: CategoryInvariant,
		Message:  "Root has been removed",
		Detail:   "Render was called on a root after Remove.",
		DocURL:   docBase + CodeRootRemoved,
	},

	// ============================================
	// Hydration errors (E120-E129)
	// ============================================

	CodeMismatchElement: {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: element type differs",
		Detail:   "The server rendered a different node than the client expected. The server node was discarded and rebuilt.",
		DocURL:   docBase + CodeMismatchElement,
	},
	CodeMismatchText: {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: text differs",
		Detail:   "The server rendered different text than the client expected. The text was replaced.",
		DocURL:   docBase + CodeMismatchText,
	},
	CodeMismatchExcess: {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: excess server nodes",
		Detail:   "The server rendered nodes the client did not. They were removed.",
		DocURL:   docBase + CodeMismatchExcess,
	},
	CodeDataMissing: {
		Category: CategoryHydration,
		Message:  "Hydration data missing",
		Detail:   "A hydration marker has no entry in the rmx-data script.",
		DocURL:   docBase + CodeDataMissing,
	},
	CodeDataInvalid: {
		Category: CategoryHydration,
		Message:  "Invalid hydration data",
		Detail:   "The rmx-data script is not valid JSON of the expected shape.",
		DocURL:   docBase + CodeDataInvalid,
	},
	CodeMarkerUnpaired: {
		Category: CategoryHydration,
		Message:  "Unpaired hydration marker",
		Detail:   "A start marker has no matching end marker among its following siblings.",
		DocURL:   docBase + CodeMarkerUnpaired,
	},
	CodeRegionStale: {
		Category: CategoryHydration,
		Message:  "Hydration region is stale",
		Detail:   "The region's markers were detached, separated or rewritten before the component loaded.",
		DocURL:   docBase + CodeRegionStale,
	},

	// ============================================
	// Loader errors (E130-E139)
	// ============================================

	CodeModuleNotFound: {
		Category: CategoryLoader,
		Message:  "Component module not found",
		Detail:   "No component is registered for this module URL and export name.",
		DocURL:   docBase + CodeModuleNotFound,
	},
	CodeModuleLoadFailed: {
		Category: CategoryLoader,
		Message:  "Component module failed to load",
		Detail:   "The module loader returned an error. The region was not mounted.",
		DocURL:   docBase + CodeModuleLoadFailed,
	},

	// ============================================
	// Frame errors (E140-E149)
	// ============================================

	CodeFrameResolveFailed: {
		Category: CategoryFrame,
		Message:  "Frame content could not be resolved",
		Detail:   "The frame resolver returned an error for this source.",
		DocURL:   docBase + CodeFrameResolveFailed,
	},
	CodeFrameCancelled: {
		Category: CategoryFrame,
		Message:  "Frame reload cancelled",
		Detail:   "A newer reload or the frame's removal cancelled this reload.",
		DocURL:   docBase + CodeFrameCancelled,
	},
	CodeFrameMarkers: {
		Category: CategoryFrame,
		Message:  "Frame markers missing",
		Detail:   "The frame's start or end marker is no longer in the document.",
		DocURL:   docBase + CodeFrameMarkers,
	},

	// ============================================
	// Configuration errors (E160-E169)
	// ============================================

	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "Could not find rmx.json or rmx.yaml in the current directory or any parent directory.",
		DocURL:   docBase + CodeConfigNotFound,
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file contains invalid values.",
		DocURL:   docBase + CodeConfigInvalid,
	},
	CodeConfigFormat: {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
		DocURL:   docBase + CodeConfigFormat,
	},

	// ============================================
	// CLI errors (E170-E179)
	// ============================================

	CodeUnknownDemo: {
		Category: CategoryCLI,
		Message:  "Unknown demo",
		Detail:   "The requested demo page is not registered.",
		DocURL:   docBase + CodeUnknownDemo,
	},
	CodeInputUnreadable: {
		Category: CategoryCLI,
		Message:  "Input file could not be read",
		Detail:   "The HTML input file does not exist or is not readable.",
		DocURL:   docBase + CodeInputUnreadable,
	},
}

// GetAllCodes returns all registered error codes in ascending order.
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
