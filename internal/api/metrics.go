package api

import "github.com/prometheus/client_golang/prometheus"

type serverMetrics struct {
	tablesParsed   prometheus.Counter
	recordsDecoded prometheus.Counter
	tablesTrunc    prometheus.Counter
	parseFailures  *prometheus.CounterVec
	tablesStored   prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		tablesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peaktable_tables_parsed_total",
			Help: "Count of uploaded peak tables that parsed successfully.",
		}),
		recordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peaktable_records_decoded_total",
			Help: "Count of records decoded from uploaded peak tables.",
		}),
		tablesTrunc: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peaktable_tables_truncated_total",
			Help: "Count of uploaded peak tables with fewer chunks than declared.",
		}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peaktable_parse_failures_total",
			Help: "Count of uploads rejected before any record was accepted.",
		},
			[]string{"reason"}),
		tablesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "peaktable_tables_stored",
			Help: "Number of peak tables currently held in memory.",
		}),
	}
	reg.MustRegister(
		m.tablesParsed,
		m.recordsDecoded,
		m.tablesTrunc,
		m.parseFailures,
		m.tablesStored,
	)
	return m
}
