package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = ingestion, W2xxx = execution, W3xxx = validation.
type WarningCode string

const (
	WarnUnmappedTicker       WarningCode = "W1001" // position skipped: ticker has no asset class mapping
	WarnEmptyPositions       WarningCode = "W1002" // positions file contained no usable rows
	WarnUnmatchedTransaction WarningCode = "W2001" // transaction matches no holding and was not applied
	WarnAllocationTotal      WarningCode = "W3001" // target percentages do not sum to 100
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
