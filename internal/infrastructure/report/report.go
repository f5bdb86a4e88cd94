// Package report ships invocation failures to Google Cloud Error Reporting
// through structured logs. Entries carrying the ReportedErrorEvent @type are
// picked up from Cloud Logging without a dedicated client.
package report

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"
)

const reportedErrorEventType = "type.googleapis.com/google.devtools.clouderrorreporting.v1beta1.ReportedErrorEvent"

type Reporter struct {
	Log     *zap.Logger
	Service string
	Version string
}

func New(log *zap.Logger, service, version string) *Reporter {
	return &Reporter{Log: log, Service: service, Version: version}
}

func (r *Reporter) Report(_ context.Context, err error, fields map[string]string) {
	if err == nil {
		return
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	zf := []zap.Field{
		zap.String("@type", reportedErrorEventType),
		zap.Dict("serviceContext",
			zap.String("service", r.Service),
			zap.String("version", r.Version),
		),
		// Error Reporting groups on the stack trace found in "message".
		zap.String("message", err.Error()+"\n"+string(debug.Stack())),
	}
	for k, v := range fields {
		zf = append(zf, zap.String(k, v))
	}
	log.Error("error_report", zf...)
}
