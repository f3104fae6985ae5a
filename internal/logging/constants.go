package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldLine       = "line"
	FieldBarcode    = "barcode"
	FieldNormalized = "normalized_barcode"
	FieldOperator   = "operator"
	FieldLocation   = "location"
	FieldStatus     = "status"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldFormat     = "format"
	FieldRunID      = "run_id"
	FieldOutputFile = "output_file"
	FieldComponent  = "component"
)
