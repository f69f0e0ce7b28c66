package server

import (
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// reloadHub tracks connected browsers and tells them to reload when
// the catalog directory changes.
type reloadHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{conns: map[*websocket.Conn]struct{}{}}
}

// handleWS upgrades the connection and keeps it registered until the
// client goes away. Nothing meaningful is read from clients; the read
// loop only detects disconnects.
func (h *reloadHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("livereload: websocket upgrade: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("livereload: websocket read: %v", err)
				}
				return
			}
		}
	}()
}

func (h *reloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast sends a reload notice to every connected client.
func (h *reloadHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			log.Printf("livereload: websocket write: %v", err)
		}
	}
}

// watch starts an fsnotify watcher over the catalog directory tree and
// broadcasts on every change. The returned function stops the watcher.
func (h *reloadHub) watch(dir string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// fsnotify does not recurse; register every directory.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New object fan-out directories appear during re-export.
				if event.Op.Has(fsnotify.Create) {
					if fi, statErr := os.Stat(event.Name); statErr == nil && fi.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				h.broadcast()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("livereload: watch: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
