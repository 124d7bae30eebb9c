package main

// File paths
const (
	DEFAULT_CONFIG_FILE_PATH = "config.yaml"
	RESULT_FILE_PATH         = "AM P2P View.txt"
	RESULT_XLSX_FILE_PATH    = "AM P2P View.xlsx"
)

// Evaluation defaults
const (
	DEFAULT_WORKERS = 4
	MAX_WORKERS     = 16
)
