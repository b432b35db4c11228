package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	ResultOK     = "ok"
	ResultDenied = "denied"
	ResultError  = "error"
)

var (
	validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_validations_total",
		Help: "Session validations by role and resulting state.",
	}, []string{"role", "state"})
	issuances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_issuances_total",
		Help: "Token pairs issued by role and result.",
	}, []string{"role", "result"})
	rotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_rotations_total",
		Help: "Refresh-token rotations by role and result.",
	}, []string{"role", "result"})
	signIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_signins_total",
		Help: "Primary-credential sign-in attempts by role and result.",
	}, []string{"role", "result"})
)

func ObserveValidation(role, state string) {
	validations.WithLabelValues(role, state).Inc()
}

func ObserveIssuance(role, result string) {
	issuances.WithLabelValues(role, result).Inc()
}

func ObserveRotation(role, result string) {
	rotations.WithLabelValues(role, result).Inc()
}

func ObserveSignIn(role, result string) {
	signIns.WithLabelValues(role, result).Inc()
}
