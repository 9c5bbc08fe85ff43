package api

import "github.com/samcharles93/peaktable/pkg/peaktable"

// TableMeta describes a stored peak table.
type TableMeta struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	Name          string `json:"name,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	FileSize      int64  `json:"file_size"`
	DeclaredCount uint64 `json:"declared_count"`
	NumPoints     int    `json:"num_points"`
	Truncated     bool   `json:"truncated"`
}

// TableDetail is TableMeta plus the diagnostics computed at upload.
type TableDetail struct {
	TableMeta
	Layout     *peaktable.Layout  `json:"layout,omitempty"`
	Statistics *peaktable.Summary `json:"statistics"`
	Warnings   []string           `json:"warnings"`
}

// TableData carries the decoded records of a stored table.
type TableData struct {
	ID         string             `json:"id"`
	Object     string             `json:"object"`
	DataPoints []peaktable.Record `json:"data_points"`
	Statistics *peaktable.Summary `json:"statistics"`
	Metadata   TableDataMetadata  `json:"metadata"`
}

type TableDataMetadata struct {
	NumPoints int   `json:"num_points"`
	FileSize  int64 `json:"file_size"`
}

type TableList struct {
	Object string      `json:"object"`
	Data   []TableMeta `json:"data"`
}

type DeletedTable struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
}
