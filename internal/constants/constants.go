package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "autoimport"

	// ConfigFileName is the file written by `autoimport init`
	ConfigFileName = "autoimport.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "AUTOIMPORT"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)
