package msgpack

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics mirror the teacher's pkg/engine/metrics.go: package-level
// promauto collectors registered once at import time, labeled by the
// decoded value's type tag, the read's error-code context, or the
// buffer's address rather than by connection/source id.
var (
	ValuesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinmsgpack_values_decoded_total",
		Help: "The total number of MessagePack values materialized by DecodeValue",
	}, []string{"type"})

	BytesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinmsgpack_bytes_decoded_total",
		Help: "The total number of bytes (markers, lengths and payloads) read from the buffer by the decoder",
	}, []string{"context"})

	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinmsgpack_decode_errors_total",
		Help: "The total number of decode errors, by stable error code",
	}, []string{"code"})

	BufferBlockedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinmsgpack_buffer_blocked_reads_total",
		Help: "The total number of Buffer.Read calls that had to wait for more data",
	}, []string{"buffer_id"})

	ActiveDecoders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pinmsgpack_active_decoders",
		Help: "The number of Decoder instances currently in use",
	})
)
