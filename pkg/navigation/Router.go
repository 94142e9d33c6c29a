/*
Package navigation holds the one process-wide piece of navigation
state: the current path. It is initialized from a location fragment
such as "#/albums/123" and updated either by fragment change events
or by explicit navigation. Listeners are told about every change.
*/
package navigation

import (
	"strings"
	"sync"
)

const (
	PageHome     = "home"
	PageAlbum    = "album"
	PageNotFound = "not-found"
)

type Route struct {
	Page    string
	AlbumID string
}

type listener struct {
	id       int
	callback func(path string)
}

type Router struct {
	mu        sync.Mutex
	current   string
	listeners []listener
	nextID    int
}

func NewRouter(fragment string) *Router {
	return &Router{
		current:   PathFromFragment(fragment),
		listeners: []listener{},
	}
}

/*
PathFromFragment strips the leading "#" from a location fragment. An
empty fragment is the root path.
*/
func PathFromFragment(fragment string) string {
	path := strings.TrimPrefix(fragment, "#")

	if path == "" {
		return "/"
	}

	return path
}

func (r *Router) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

/*
OnChange registers callback to be called with the new path after every
change. The returned function removes the registration.
*/
func (r *Router) OnChange(callback func(path string)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, callback: callback})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		for index, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:index:index], r.listeners[index+1:]...)
				return
			}
		}
	}
}

func (r *Router) HandleFragmentChange(fragment string) {
	r.Navigate(PathFromFragment(fragment))
}

/*
Navigate sets the current path. Listeners are only notified when the
path actually changes, matching fragment change semantics.
*/
func (r *Router) Navigate(path string) {
	if path == "" {
		path = "/"
	}

	r.mu.Lock()

	if path == r.current {
		r.mu.Unlock()
		return
	}

	r.current = path
	listeners := make([]listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.callback(path)
	}
}

/*
Match resolves a path to the page that renders it.
*/
func Match(path string) Route {
	trimmed := strings.Trim(path, "/")

	if trimmed == "" {
		return Route{Page: PageHome}
	}

	parts := strings.Split(trimmed, "/")

	if len(parts) == 2 && parts[0] == "albums" && parts[1] != "" {
		return Route{Page: PageAlbum, AlbumID: parts[1]}
	}

	return Route{Page: PageNotFound}
}
