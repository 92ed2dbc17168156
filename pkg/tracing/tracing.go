package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contrib.go.opencensus.io/exporter/aws"
	"contrib.go.opencensus.io/exporter/jaeger"
	"contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/stackdriver"
	"contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	datadog "github.com/DataDog/opencensus-go-exporter-datadog"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/Notifuse/blockeditor/config"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

// ShutdownFunc flushes and stops whatever InitTracing started
type ShutdownFunc func(ctx context.Context)

type traceExporterFactory func(cfg *config.TracingConfig) (trace.Exporter, func(), error)

type metricsExporterFactory func(cfg *config.TracingConfig, log logger.Logger) (view.Exporter, func(context.Context), error)

var traceExporters = map[string]traceExporterFactory{
	"jaeger":      newJaegerExporter,
	"zipkin":      newZipkinExporter,
	"stackdriver": newStackdriverTraceExporter,
	"datadog":     newDatadogTraceExporter,
	"xray":        newXRayExporter,
}

var metricsExporters = map[string]metricsExporterFactory{
	"prometheus":  newPrometheusExporter,
	"stackdriver": newStackdriverMetricsExporter,
	"datadog":     newDatadogMetricsExporter,
}

// InitTracing configures OpenCensus sampling, exporters and views.
// When tracing is disabled it does nothing and returns a no-op shutdown.
func InitTracing(cfg *config.TracingConfig, log logger.Logger) (ShutdownFunc, error) {
	var stops []func(context.Context)
	shutdown := func(ctx context.Context) {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i](ctx)
		}
	}

	if !cfg.Enabled {
		return shutdown, nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	if name := cfg.TraceExporter; name != "" && name != "none" {
		factory, ok := traceExporters[name]
		if !ok {
			return nil, fmt.Errorf("unsupported trace exporter: %s", name)
		}
		exporter, stop, err := factory(cfg)
		if err != nil {
			return nil, err
		}
		trace.RegisterExporter(exporter)
		stops = append(stops, func(context.Context) {
			trace.UnregisterExporter(exporter)
			if stop != nil {
				stop()
			}
		})
		log.WithField("exporter", name).Info("Trace exporter initialized")
	}

	names, err := parseMetricsExporters(cfg.MetricsExporter)
	if err != nil {
		shutdown(context.Background())
		return nil, err
	}
	for _, name := range names {
		exporter, stop, err := metricsExporters[name](cfg, log)
		if err != nil {
			shutdown(context.Background())
			return nil, fmt.Errorf("failed to initialize %s metrics exporter: %w", name, err)
		}
		view.RegisterExporter(exporter)
		stops = append(stops, func(ctx context.Context) {
			view.UnregisterExporter(exporter)
			if stop != nil {
				stop(ctx)
			}
		})
		log.WithField("exporter", name).Info("Metrics exporter initialized")
	}

	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		shutdown(context.Background())
		return nil, fmt.Errorf("failed to register HTTP server views: %w", err)
	}
	if err := view.Register(ocsql.DefaultViews...); err != nil {
		shutdown(context.Background())
		return nil, fmt.Errorf("failed to register database views: %w", err)
	}
	if err := RegisterEditorViews(); err != nil {
		shutdown(context.Background())
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"trace_exporter":   cfg.TraceExporter,
		"metrics_exporter": cfg.MetricsExporter,
	}).Info("OpenCensus initialized")
	return shutdown, nil
}

// parseMetricsExporters splits a comma-separated exporter list, dropping blanks and duplicates
func parseMetricsExporters(value string) ([]string, error) {
	if value == "" || value == "none" {
		return nil, nil
	}
	var names []string
	seen := map[string]bool{}
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if _, ok := metricsExporters[name]; !ok {
			return nil, fmt.Errorf("unsupported metrics exporter: %s", name)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func newJaegerExporter(cfg *config.TracingConfig) (trace.Exporter, func(), error) {
	if cfg.JaegerEndpoint == "" {
		return nil, nil, errors.New("jaeger endpoint is required for jaeger exporter")
	}
	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: cfg.JaegerEndpoint,
		Process: jaeger.Process{
			ServiceName: cfg.ServiceName,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}
	return je, je.Flush, nil
}

func newZipkinExporter(cfg *config.TracingConfig) (trace.Exporter, func(), error) {
	if cfg.ZipkinEndpoint == "" {
		return nil, nil, errors.New("zipkin endpoint is required for zipkin exporter")
	}
	reporter := zipkinhttp.NewReporter(cfg.ZipkinEndpoint)
	return zipkin.NewExporter(reporter, nil), func() { _ = reporter.Close() }, nil
}

func newStackdriverTraceExporter(cfg *config.TracingConfig) (trace.Exporter, func(), error) {
	if cfg.StackdriverProjectID == "" {
		return nil, nil, errors.New("stackdriver project ID is required for stackdriver exporter")
	}
	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID: cfg.StackdriverProjectID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stackdriver exporter: %w", err)
	}
	return se, se.Flush, nil
}

func newDatadogTraceExporter(cfg *config.TracingConfig) (trace.Exporter, func(), error) {
	exporter, err := newDatadog(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return exporter, exporter.Stop, nil
}

func newXRayExporter(cfg *config.TracingConfig) (trace.Exporter, func(), error) {
	if cfg.XRayRegion == "" {
		return nil, nil, errors.New("AWS region is required for xray exporter")
	}
	exporter, err := aws.NewExporter(
		aws.WithRegion(cfg.XRayRegion),
		aws.WithVersion("latest"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create xray exporter: %w", err)
	}
	return exporter, exporter.Flush, nil
}

func newPrometheusExporter(cfg *config.TracingConfig, log logger.Logger) (view.Exporter, func(context.Context), error) {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: strings.ReplaceAll(cfg.ServiceName, "-", "_"),
		OnError: func(err error) {
			log.WithField("error", err.Error()).Error("Prometheus exporter error")
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	if cfg.PrometheusPort <= 0 {
		log.Info("Prometheus metrics server not started (port not configured)")
		return pe, nil, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", pe)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.PrometheusPort).Info("Starting Prometheus metrics server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Error("Prometheus metrics server failed")
		}
	}()
	return pe, func(ctx context.Context) { _ = server.Shutdown(ctx) }, nil
}

func newStackdriverMetricsExporter(cfg *config.TracingConfig, log logger.Logger) (view.Exporter, func(context.Context), error) {
	if cfg.StackdriverProjectID == "" {
		return nil, nil, errors.New("stackdriver project ID is required for stackdriver metrics exporter")
	}
	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:    cfg.StackdriverProjectID,
		MetricPrefix: cfg.ServiceName,
		OnError: func(err error) {
			log.WithField("error", err.Error()).Error("Stackdriver metrics exporter error")
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stackdriver metrics exporter: %w", err)
	}
	return se, func(context.Context) { se.Flush() }, nil
}

func newDatadogMetricsExporter(cfg *config.TracingConfig, log logger.Logger) (view.Exporter, func(context.Context), error) {
	exporter, err := newDatadog(cfg, func(err error) {
		log.WithField("error", err.Error()).Error("Datadog metrics exporter error")
	})
	if err != nil {
		return nil, nil, err
	}
	return exporter, func(context.Context) { exporter.Stop() }, nil
}

func newDatadog(cfg *config.TracingConfig, onError func(error)) (*datadog.Exporter, error) {
	if cfg.DatadogAgentAddress == "" {
		return nil, errors.New("datadog agent address is required for datadog exporter")
	}
	exporter, err := datadog.NewExporter(datadog.Options{
		Service:   cfg.ServiceName,
		TraceAddr: cfg.DatadogAgentAddress,
		StatsAddr: cfg.DatadogAgentAddress,
		OnError:   onError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create datadog exporter: %w", err)
	}
	return exporter, nil
}
