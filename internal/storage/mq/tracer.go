package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("perfume-inventory/internal/storage/mq")

// newKotel instruments a franz-go client with the global tracer provider
// and propagator. It must be built after telemetry is initialised.
func newKotel() *kotel.Kotel {
	return kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(
			kotel.TracerProvider(otel.GetTracerProvider()),
			kotel.TracerPropagator(otel.GetTextMapPropagator()),
		)),
	)
}
