// Package metrics registers the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsOpened counts attendance sessions opened by lecturers.
	SessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unimark_sessions_opened_total",
		Help: "Number of attendance sessions opened",
	})

	// AttendanceMarked counts successfully recorded scans.
	AttendanceMarked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unimark_attendance_marked_total",
		Help: "Number of attendance records created",
	})

	// AttendanceRejected counts rejected scans by reason.
	AttendanceRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unimark_attendance_rejected_total",
		Help: "Number of rejected attendance scans",
	}, []string{"reason"})
)
