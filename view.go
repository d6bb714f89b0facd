package main

import (
	"html/template"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"goblog/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// viewRenderer renders page templates over a shared base layout.
// Parsed templates are cached; in dev mode an fsnotify watcher drops
// the cache whenever a template file changes.
type viewRenderer struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

var views *viewRenderer

func newViewRenderer(dir string, dev bool) *viewRenderer {
	v := &viewRenderer{dir: dir, cache: map[string]*template.Template{}}
	if dev {
		v.watch()
	}
	return v
}

func viewFuncs() template.FuncMap {
	return template.FuncMap{
		"year":       func() int { return time.Now().Year() },
		"postDate":   func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"pathEscape": func(s string) string { return url.PathEscape(s) },
	}
}

func (v *viewRenderer) lookup(name string) (*template.Template, error) {
	v.mu.RLock()
	tpl, ok := v.cache[name]
	v.mu.RUnlock()
	if ok {
		return tpl, nil
	}
	tpl, err := template.New("base.html").Funcs(viewFuncs()).ParseFiles(
		filepath.Join(v.dir, "base.html"),
		filepath.Join(v.dir, name),
	)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.cache[name] = tpl
	v.mu.Unlock()
	return tpl, nil
}

// watch invalidates the template cache on any change under the template
// dir. Dev convenience only; errors just disable reloading.
func (v *viewRenderer) watch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Get().Warn().Err(err).Msg("template watcher unavailable")
		return
	}
	if err := w.Add(v.dir); err != nil {
		logger.Get().Warn().Err(err).Str("dir", v.dir).Msg("cannot watch template dir")
		_ = w.Close()
		return
	}
	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				v.mu.Lock()
				v.cache = map[string]*template.Template{}
				v.mu.Unlock()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// render writes a page with the given status. The current actor and any
// pending flash notice are always available to templates.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentUser(c)
	if flash := takeFlash(c); flash != "" {
		data["Flash"] = flash
	}
	tpl, err := views.lookup(name)
	if err != nil {
		logger.Get().Error().Err(err).Str("template", name).Msg("template parse failed")
		c.String(500, "template error")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := tpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		logger.Get().Error().Err(err).Str("template", name).Msg("template render failed")
	}
}

// setFlash queues a one-shot notice for the next rendered page.
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, url.QueryEscape(msg), 60, "/", "", false, true)
}

// takeFlash pops the pending notice, if any.
func takeFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}
