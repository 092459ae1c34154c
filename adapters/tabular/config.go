package tabular

// ReaderConfig holds configuration for decoding uploads
type ReaderConfig struct {
	// MaxBytes rejects larger inputs before decoding; 0 disables the check.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
	// NullValues are cell values treated as missing, in addition to the empty string.
	NullValues []string `json:"null_values" yaml:"null_values"`
}

// DefaultReaderConfig returns sensible defaults for interactive uploads
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxBytes:   10 * 1024 * 1024,
		NullValues: DefaultNullValues(),
	}
}

// DefaultNullValues are the missing-value markers spreadsheet and dataframe
// exports commonly write. A parent cell holding one of them marks a root.
func DefaultNullValues() []string {
	return []string{
		"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
}
