package telemetry

// Span and attribute names used for instrumentation.
const (
	// Spans
	SpanConvertRun = "convert.run"

	// Run attributes
	AttrRowsRead    = "rows.read"
	AttrRowsWritten = "rows.written"
	AttrNorthern    = "convert.northern"

	// Files
	AttrInputPath  = "file.input"
	AttrOutputPath = "file.output"
)
