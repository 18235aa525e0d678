package servers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bililive-go/eventdispatcher/src/instance"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func log(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(rec, r)
		inst := instance.GetInstance(r.Context())
		if inst == nil || inst.Logger == nil {
			return
		}
		inst.Logger.WithFields(logrus.Fields{
			"Method":     r.Method,
			"Path":       r.RequestURI,
			"RemoteAddr": r.RemoteAddr,
			"Status":     rec.status,
			"Cost":       time.Since(start).String(),
		}).Debug("Http Request")
	})
}
