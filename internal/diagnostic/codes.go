package diagnostic

// Structural error codes.
const (
	CodeMissingPath               = "missing_path"
	CodeExplicitRootRequired      = "explicit_root_required"
	CodeMissingLeaf               = "missing_leaf"
	CodeMissingLeafType           = "missing_leaf_type"
	CodeConflictingAttributes     = "conflicting_attributes"
	CodeConflictingStorageMarkers = "conflicting_storage_markers"
	CodeMissingRelatedShape       = "missing_related_shape"
	CodeInvalidAnnotation         = "invalid_annotation"
	CodeInvalidDeclaration        = "invalid_declaration"
	CodeInvalidPath               = "invalid_path"
	CodeDuplicateSchema           = "duplicate_schema"
	CodeDuplicateField            = "duplicate_field"
	CodeDuplicateLeaf             = "duplicate_leaf"
	CodeOverrideNotOnDefinition   = "override_not_on_definition"
	CodeReservedField             = "reserved_field"
)

// Warning codes.
const (
	CodeRedundantOverridable = "redundant_overridable"
	CodeRedundantIdentity    = "redundant_identity"
	CodePathRootMismatch     = "path_root_mismatch"
	CodeUnplacedField        = "unplaced_field"
)

// Info codes.
const (
	CodeRelationshipCycle = "relationship_cycle"
)
