package config

// NewProjectForTest creates Project flags for testing purposes
func NewProjectForTest(configPath string, descriptors []string, noBuiltin bool, output string) *Project {
	return &Project{
		configPath:  configPath,
		descriptors: descriptors,
		noBuiltin:   noBuiltin,
		output:      output,
	}
}

// NewLoggerForTest creates Logger flags for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
