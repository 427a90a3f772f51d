package dataimport

import "io"

type ImportRequest struct {
	Filename string
	File     io.Reader
	Type     Type
}

type EntityCounters struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type WorkloadCounters struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type FileInfo struct {
	OriginalName     string `json:"original_name"`
	RecordsProcessed int    `json:"records_processed"`
}

type ImportResult struct {
	Departments     EntityCounters   `json:"departments"`
	Positions       EntityCounters   `json:"positions"`
	Employees       EntityCounters   `json:"employees"`
	Projects        EntityCounters   `json:"projects"`
	WorkloadEntries WorkloadCounters `json:"workload_entries"`
	Rejected        []RowError       `json:"rejected"`
	FileInfo        FileInfo         `json:"file_info"`
}

type ValidationPreview struct {
	TotalRecords  int        `json:"total_records"`
	SampleRecords []Record   `json:"sample_records"`
	Columns       []string   `json:"columns"`
	Rejected      []RowError `json:"rejected"`
}

type Template struct {
	Filename    string
	ContentType string
	Content     []byte
}

type StatusResponse struct {
	Service          string   `json:"service"`
	Status           string   `json:"status"`
	SupportedFormats []string `json:"supported_formats"`
	ImportTypes      []Type   `json:"import_types"`
	MaxFileSize      string   `json:"max_file_size"`
}
