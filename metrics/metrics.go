package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

const (
	MetricsNamespace = "bdd"
)

var (
	Debug                bool = true
	recordableStatuses        = []types.ExecutionStatus{types.StatusPassed, types.StatusBypassed, types.StatusIgnored, types.StatusFailed}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	scenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scenarios_total",
		Help:      "Count of finished scenarios",
	}, []string{
		"run_id",
		"feature",
		"scenario",
		"status",
	})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "steps_total",
		Help:      "Count of finished steps",
	}, []string{
		"run_id",
		"status",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of scenario runs",
	}, []string{
		"run_id",
		"result",
	})

	runScenarioTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_total",
		Help:      "Total number of scenarios in a run",
	}, []string{
		"run_id",
	})

	runScenarioPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_passed",
		Help:      "Number of passed scenarios in a run",
	}, []string{
		"run_id",
	})

	runScenarioFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_failed",
		Help:      "Number of failed scenarios in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration",
		Help:      "Duration of scenario runs in seconds",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordScenario(runID string, feature string, scenario string, status types.ExecutionStatus) {
	if !isRecordableStatus(status) {
		log.Error("RecordScenario - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "scenarios_total",
			"run_id", runID,
			"feature", feature,
			"scenario", scenario,
			"status", status)
	}
	scenariosTotal.WithLabelValues(runID, feature, scenario, status.String()).Inc()
}

func RecordStep(runID string, status types.ExecutionStatus) {
	stepsTotal.WithLabelValues(runID, status.String()).Inc()
}

func RecordRun(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	runResults.WithLabelValues(runID, result).Set(1)
	runScenarioTotal.WithLabelValues(runID).Add(float64(total))
	runScenarioPassed.WithLabelValues(runID).Add(float64(passed))
	runScenarioFailed.WithLabelValues(runID).Add(float64(failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isRecordableStatus(status types.ExecutionStatus) bool {
	return slices.Contains(recordableStatuses, status)
}
