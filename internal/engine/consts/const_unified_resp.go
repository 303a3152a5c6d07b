package consts

// UnifiedResponse locals read by the unified response middleware
const (
	// DETAIL carries response data, e.g. c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION marks a mutation that returns no data, e.g. c.Locals(OPERATION, "")
	OPERATION = "operation"
)
