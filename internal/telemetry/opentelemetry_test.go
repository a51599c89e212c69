package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"go.pavemaster.dev/integrations/log"
)

func TestInitMeterProvider(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := InitMeterProvider(context.Background(), "telemetry-test", reg)
	require.NoError(t, err)

	counter, err := otel.Meter("telemetry-test").Int64Counter("widgets")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	serviceLabel := ""
	for _, f := range families {
		names = append(names, f.GetName())
		if f.GetName() != "target_info" {
			continue
		}
		for _, l := range f.GetMetric()[0].GetLabel() {
			if l.GetName() == "service_name" {
				serviceLabel = l.GetValue()
			}
		}
	}
	assert.Contains(t, names, "widgets_total")
	assert.Equal(t, "telemetry-test", serviceLabel)

	Shutdown(context.Background(), log.Nop(), nil, mp)
}
