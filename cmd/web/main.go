package main

import (
	"bytes"
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var pageSource string

var pageTemplate = template.Must(template.New("index").Parse(pageSource))

// page is what the landing page shows besides the static controls list.
type page struct {
	SSHHost string
	SSHPort string
}

func (p page) Command() string {
	if p.SSHPort == "" || p.SSHPort == "22" {
		return "ssh -t " + p.SSHHost
	}
	return "ssh -t -p " + p.SSHPort + " " + p.SSHHost
}

// landing renders the page once; the content never changes while running.
func landing(p page) (http.Handler, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	body := buf.Bytes()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}), nil
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	p := page{
		SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		SSHPort: config.GetEnv("SSH_DISPLAY_PORT", "2222"),
	}

	handler, err := landing(p)
	if err != nil {
		logger.Fatal("render landing page", "err", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", srv.Addr, "ssh", p.Command())
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
