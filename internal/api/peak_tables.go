package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/samcharles93/peaktable/pkg/peaktable"
)

func (s *Server) handleUpload(c *echo.Context) error {
	data, err := readLimited(c.Request().Body, s.maxBody)
	if err != nil {
		if errors.Is(err, ErrUploadTooLarge) {
			s.metrics.parseFailures.WithLabelValues("too_large").Inc()
			return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
				fmt.Sprintf("peak table larger than %d bytes", s.maxBody), "upload_too_large")
		}
		return writeBadRequest(c, err.Error())
	}
	if len(data) == 0 {
		s.metrics.parseFailures.WithLabelValues("empty").Inc()
		return writeBadRequest(c, "no binary data provided")
	}

	tbl, err := peaktable.ParseBytes(data)
	if err != nil {
		reason, code := "read_error", ""
		if errors.Is(err, peaktable.ErrTruncatedHeader) {
			reason, code = "truncated_header", "truncated_header"
		}
		s.metrics.parseFailures.WithLabelValues(reason).Inc()
		return writeError(c, http.StatusUnprocessableEntity, "invalid_peak_table", err.Error(), code)
	}

	warnings := tbl.Warnings()
	var layout *peaktable.Layout
	if l, err := peaktable.Analyze(int64(len(data))); err == nil {
		layout = &l
		warnings = append(warnings, l.Check(tbl)...)
	} else {
		warnings = append(warnings, err.Error())
	}

	name := strings.TrimSpace(c.QueryParam("name"))
	rec := newTableRecord(name, int64(len(data)), tbl, layout, warnings, s.clock())
	body, err := json.Marshal(rec.detail())
	if err != nil {
		s.metrics.parseFailures.WithLabelValues("encode").Inc()
		return writeError(c, http.StatusInternalServerError, "server_error",
			fmt.Sprintf("encode peak table: %v", err), "")
	}
	s.store.put(rec)

	s.metrics.tablesParsed.Inc()
	s.metrics.recordsDecoded.Add(float64(tbl.Len()))
	if tbl.Truncated {
		s.metrics.tablesTrunc.Inc()
	}
	s.metrics.tablesStored.Set(float64(s.store.Len()))

	s.log.Info("peak table stored", "id", rec.Meta.ID, "points", tbl.Len(), "declared", tbl.Declared, "warnings", len(warnings))
	return c.Blob(http.StatusCreated, echo.MIMEApplicationJSON, body)
}

func (s *Server) handleList(c *echo.Context) error {
	return c.JSON(http.StatusOK, TableList{
		Object: "list",
		Data:   s.store.List(),
	})
}

func (s *Server) handleGet(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "peak table not found")
	}
	return c.JSON(http.StatusOK, rec.detail())
}

func (s *Server) handleData(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "peak table not found")
	}
	points := rec.Table.Records
	if points == nil {
		points = []peaktable.Record{}
	}
	return c.JSON(http.StatusOK, TableData{
		ID:         rec.Meta.ID,
		Object:     "peak_table.data",
		DataPoints: points,
		Statistics: rec.Summary,
		Metadata: TableDataMetadata{
			NumPoints: rec.Meta.NumPoints,
			FileSize:  rec.Meta.FileSize,
		},
	})
}

func (s *Server) handleDelete(c *echo.Context) error {
	id := c.Param("id")
	if id == "" || !s.store.Delete(id) {
		return writeNotFound(c, "peak table not found")
	}
	s.metrics.tablesStored.Set(float64(s.store.Len()))
	return c.JSON(http.StatusOK, DeletedTable{
		ID:      id,
		Object:  "peak_table.deleted",
		Deleted: true,
	})
}

func (s *Server) lookup(c *echo.Context) (*tableRecord, bool) {
	id := c.Param("id")
	if id == "" {
		return nil, false
	}
	return s.store.Get(id)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrUploadTooLarge
	}
	return data, nil
}
