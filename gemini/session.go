/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gemini

import (
	"crypto/tls"
	"sync"
)

// SessionCache holds one resumable TLS session per host:port pair.
type SessionCache struct {
	lock     sync.Mutex
	sessions map[string]*tls.ClientSessionState
}

// hostSessions is the view of a [SessionCache] used by a single connection.
//
// It ignores the key chosen by crypto/tls and files sessions under the host:port pair of the
// connection instead.
type hostSessions struct {
	cache   *SessionCache
	key     string
	offered *tls.ClientSessionState
}

func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: map[string]*tls.ClientSessionState{}}
}

// Get returns the session cached for a host:port pair.
func (c *SessionCache) Get(key string) (*tls.ClientSessionState, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	session, ok := c.sessions[key]
	return session, ok
}

// Put caches a session for a host:port pair, replacing the previous one. A nil session
// removes the entry.
func (c *SessionCache) Put(key string, session *tls.ClientSessionState) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if session == nil {
		delete(c.sessions, key)
	} else {
		c.sessions[key] = session
	}
}

// remove removes a session only if it's still the one cached for key.
func (c *SessionCache) remove(key string, session *tls.ClientSessionState) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if current, ok := c.sessions[key]; ok && current == session {
		delete(c.sessions, key)
		return true
	}

	return false
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.sessions)
}

func (c *SessionCache) forHost(key string) *hostSessions {
	return &hostSessions{cache: c, key: key}
}

func (h *hostSessions) Get(string) (*tls.ClientSessionState, bool) {
	session, ok := h.cache.Get(h.key)
	if ok {
		h.offered = session
	}
	return session, ok
}

func (h *hostSessions) Put(_ string, session *tls.ClientSessionState) {
	h.cache.Put(h.key, session)
}
