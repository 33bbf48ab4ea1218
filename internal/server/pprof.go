package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// newPprofServer serves the profiling endpoints on their own listener.
// Keep addr internal; it is never mounted on the public router.
func newPprofServer(addr string) *http.Server {
	r := gin.New()
	pprof.Register(r)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
