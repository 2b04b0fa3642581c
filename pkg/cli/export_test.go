package cli

var (
	Estimate  = estimate
	PrintYAML = printYAML
)
