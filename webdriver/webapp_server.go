// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/phayes/freeport"
)

var (
	remote     = flag.Bool("remote", false, "Use a deployed fixture host instead of a local server")
	remoteHost = flag.String("remote_host", "", "Host serving the fixture pages when --remote is set")
)

// AppServer is an abstraction for navigating an instance of the fixture
// shell.
type AppServer interface {
	// Hook for closing the process that runs the webserver.
	io.Closer

	// GetWebappURL returns the URL for the given path on the running server.
	GetWebappURL(path string) string
}

type remoteAppServer struct {
	host string
}

func (i *remoteAppServer) GetWebappURL(path string) string {
	// Remote servers have HTTPS.
	return fmt.Sprintf("https://%s%s", i.host, path)
}

func (i *remoteAppServer) Close() error {
	return nil // Nothing needed here :)
}

type fixtureServer struct {
	srv  *http.Server
	host string
	port int
	errc chan error
}

func (i *fixtureServer) GetWebappURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", i.host, i.port, path)
}

func (i *fixtureServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := i.srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-i.errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewWebserver creates an AppServer instance, which may be backed by a local
// fixture server or a remote host.
func NewWebserver(accessLog io.Writer) (AppServer, error) {
	if *remote {
		if *remoteHost == "" {
			return nil, errors.New("--remote_host not specified")
		}
		return &remoteAppServer{host: *remoteHost}, nil
	}
	return NewFixtureServer(accessLog)
}

// NewFixtureServer serves the fixture shell on a free local port, writing an
// access log to accessLog.
func NewFixtureServer(accessLog io.Writer) (AppServer, error) {
	port, err := freeport.GetFreePort()
	if err != nil {
		return nil, fmt.Errorf("picking a port: %w", err)
	}
	i := &fixtureServer{host: "localhost", port: port, errc: make(chan error, 1)}
	ln, err := net.Listen("tcp", net.JoinHostPort(i.host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	i.srv = &http.Server{
		Handler:           handlers.CombinedLoggingHandler(accessLog, FixtureRouter()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		i.errc <- i.srv.Serve(ln)
	}()
	return i, nil
}

// FixtureRouter returns the routes of the fixture shell:
//
//	/             the dock, with a menu opening the blotter in a new window
//	/login        a login form whose button enables after a delay
//	/blotter      a layout nesting the blotter grid two frames deep
//	/frames/NAME  the blotter's frames
//	/deep/N       N nested frames with #target in the innermost
func FixtureRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", page("Merlin Dock", dockBody)).Methods(http.MethodGet)
	r.HandleFunc("/login", page("Mizuho Login", loginBody)).Methods(http.MethodGet)
	r.HandleFunc("/blotter", page("Historical Trader Blotter", blotterBody)).Methods(http.MethodGet)
	r.HandleFunc("/frames/{name:[a-z]+}", framePage).Methods(http.MethodGet)
	r.HandleFunc("/deep/{depth:[0-9]+}", deepPage).Methods(http.MethodGet)
	return r
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

func render(w http.ResponseWriter, title string, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Title: title, Body: body}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func page(title string, body template.HTML) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, title, body)
	}
}

const dockBody template.HTML = `<div id="dock" title="Dock">
  <button class="menu-button" onclick="document.getElementById('menu').style.display='block'">Menu</button>
  <div id="menu" style="display:none">
    <span onclick="window.open('/blotter', 'blotter')">Historical Trader Blotter</span>
  </div>
</div>`

const loginBody template.HTML = `<form onsubmit="return false">
  <input type="text">
  <input type="password">
  <button id="login" disabled>Login</button>
</form>
<script>setTimeout(function() { document.getElementById('login').disabled = false; }, 1000);</script>`

const blotterBody template.HTML = `<iframe id="toolbar" name="toolbar" src="/frames/toolbar"></iframe>
<iframe id="content" name="content" src="/frames/content"></iframe>`

var frameBodies = map[string]template.HTML{
	"toolbar": `<div class="toolbar">Toolbar</div>`,
	"content": `<iframe id="grid" name="grid" src="/frames/grid"></iframe>`,
	"grid": `<div id="HistoricalBlotter">
  <button id="all-ownership-button">All</button>
  <button id="mine-ownership-button">Mine</button>
  <button id="team-ownership-button">Team</button>
  <input aria-label="B/S Filter Input">
  <div role="grid">
    <div role="row" aria-rowindex="1"></div>
    <div role="row" aria-rowindex="2"></div>
    <div role="row" aria-rowindex="3">B</div>
    <div role="row" aria-rowindex="4">S</div>
  </div>
</div>`,
}

func framePage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, ok := frameBodies[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, name, body)
}

func deepPage(w http.ResponseWriter, r *http.Request) {
	depth, err := strconv.Atoi(mux.Vars(r)["depth"])
	if err != nil || depth > 16 {
		http.Error(w, "bad depth", http.StatusBadRequest)
		return
	}
	if depth == 0 {
		render(w, "deep 0", `<div id="target">target</div>`)
		return
	}
	body := template.HTML(fmt.Sprintf(`<iframe id="level-%d" src="/deep/%d"></iframe>`, depth, depth-1))
	render(w, fmt.Sprintf("deep %d", depth), body)
}
