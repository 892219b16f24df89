// Package seewebtest provides an in-memory SEEweb for tests.
package seewebtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/seeweb"
)

const sessionCookie = "auth_tkt"

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Form   url.Values
}

// Link is a stored edge between two ROs.
type Link struct {
	ID     int
	Source string
	Target string
	Type   string
}

// Upload is a file received on the RO creation form.
type Upload struct {
	Filename string
	Data     []byte
}

// Server is a fake catalog backed by maps. Its zero value is not usable;
// call New.
type Server struct {
	*httptest.Server

	// Password, when set, is required by /user_login and every write
	// endpoint then needs the session cookie.
	Password string

	mu      sync.Mutex
	objects map[string]ro.Def
	links   []Link
	nextID  int
	calls   []Call
	uploads []Upload
}

// New starts a server. Close it when done.
func New() *Server {
	s := &Server{objects: make(map[string]ro.Def), nextID: 1}
	mux := http.NewServeMux()
	mux.HandleFunc(seeweb.PathLogin, s.handleLogin)
	mux.HandleFunc(seeweb.PathSearch, s.handleSearch)
	mux.HandleFunc(seeweb.PathRegister, s.handleRegister)
	mux.HandleFunc(seeweb.PathRemove, s.handleRemove)
	mux.HandleFunc(seeweb.PathConnect, s.handleConnect)
	mux.HandleFunc(seeweb.PathDisconnect, s.handleDisconnect)
	mux.HandleFunc(seeweb.PathUpload, s.handleUpload)
	s.Server = httptest.NewServer(mux)
	return s
}

// Put seeds def as if it had been registered earlier.
func (s *Server) Put(def ro.Def) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[def.ID()] = def.Clone()
}

// Def returns the stored definition for id.
func (s *Server) Def(id string) (ro.Def, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.objects[id]
	return def, ok
}

// Len returns the number of stored ROs.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Calls returns every request received, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests received on path.
func (s *Server) CallsTo(path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Writes returns register, remove and connect calls in order, skipping
// reads. Each is rendered compactly for assertions:
// "register:<ro_type>:<id>", "remove:<uid>" or "connect:<link_type>:<src>><tgt>".
// Data registrations show "data" as their type.
func (s *Server) Writes() []string {
	var out []string
	for _, c := range s.Calls() {
		switch c.Path {
		case seeweb.PathRegister:
			var def ro.Def
			_ = json.Unmarshal([]byte(c.Form.Get("ro_def")), &def)
			typ := c.Form.Get("ro_type")
			if c.Form.Get("interface") != "" {
				typ = "data"
			}
			out = append(out, "register:"+typ+":"+def.ID())
		case seeweb.PathRemove:
			out = append(out, "remove:"+c.Form.Get("uid"))
		case seeweb.PathConnect:
			out = append(out, "connect:"+c.Form.Get("link_type")+":"+c.Form.Get("src")+">"+c.Form.Get("tgt"))
		}
	}
	return out
}

// Links returns the stored links.
func (s *Server) Links() []Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Link(nil), s.links...)
}

// Uploads returns the received files.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) record(r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		_ = r.ParseMultipartForm(32 << 20)
	} else {
		_ = r.ParseForm()
	}
	form := url.Values{}
	for k, v := range r.Form {
		form[k] = append([]string(nil), v...)
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Form: form})
	s.mu.Unlock()
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if s.Password == "" {
		return true
	}
	if _, err := r.Cookie(sessionCookie); err != nil {
		http.Error(w, "login required", http.StatusForbidden)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Password != "" && r.PostForm.Get("password") != s.Password {
		http.Error(w, "bad credentials", http.StatusForbidden)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: r.PostForm.Get("user_id"), Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	if uid := q.Get("uid"); uid != "" {
		def, ok := s.objects[uid]
		if !ok {
			writeJSON(w, nil)
			return
		}
		writeJSON(w, def)
		return
	}

	ids := []string{}
	for id, def := range s.objects {
		if matches(def, q) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	writeJSON(w, ids)
}

func matches(def ro.Def, q url.Values) bool {
	for key := range q {
		got, _ := def[key].(string)
		if got != q.Get(key) {
			return false
		}
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if !s.authorized(w, r) {
		return
	}
	var def ro.Def
	if err := json.Unmarshal([]byte(r.PostForm.Get("ro_def")), &def); err != nil || def == nil {
		writeJSON(w, map[string]any{"status": "fail", "msg": "bad ro_def"})
		return
	}
	if iface := r.PostForm.Get("interface"); iface != "" {
		def["type"] = ro.TypeData
		def["interface"] = iface
	} else if typ := r.PostForm.Get("ro_type"); typ != "" {
		def["type"] = typ
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := def.ID()
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
		def["id"] = id
	}
	if _, ok := s.objects[id]; ok {
		writeJSON(w, map[string]any{"status": "fail", "msg": "RO with id " + id + " already exists"})
		return
	}
	s.objects[id] = def
	writeJSON(w, map[string]any{"status": "success", "msg": "", "res": id})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if !s.authorized(w, r) {
		return
	}
	uid := r.PostForm.Get("uid")
	recursive, _ := strconv.ParseBool(r.PostForm.Get("recursive"))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[uid]; !ok {
		http.Error(w, "no RO "+uid, http.StatusNotFound)
		return
	}
	s.remove(uid, recursive)
	writeJSON(w, uid)
}

func (s *Server) remove(uid string, recursive bool) {
	delete(s.objects, uid)
	kept := s.links[:0]
	var children []string
	for _, l := range s.links {
		switch {
		case l.Source == uid && l.Type == ro.LinkContains:
			children = append(children, l.Target)
		case l.Source == uid || l.Target == uid:
		default:
			kept = append(kept, l)
		}
	}
	s.links = kept
	if recursive {
		for _, c := range children {
			if _, ok := s.objects[c]; ok {
				s.remove(c, true)
			}
		}
	}
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if !s.authorized(w, r) {
		return
	}
	src, tgt, typ := r.PostForm.Get("src"), r.PostForm.Get("tgt"), r.PostForm.Get("link_type")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range []string{src, tgt} {
		if _, ok := s.objects[id]; !ok {
			http.Error(w, "no RO "+id, http.StatusBadRequest)
			return
		}
	}
	l := Link{ID: s.nextID, Source: src, Target: tgt, Type: typ}
	s.nextID++
	s.links = append(s.links, l)
	writeJSON(w, l.ID)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if !s.authorized(w, r) {
		return
	}
	src, tgt, typ := r.PostForm.Get("source"), r.PostForm.Get("target"), r.PostForm.Get("link_type")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.links {
		if l.Source == src && l.Target == tgt && l.Type == typ {
			s.links = append(s.links[:i], s.links[i+1:]...)
			writeJSON(w, l.ID)
			return
		}
	}
	http.Error(w, "no such link", http.StatusNotFound)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if !s.authorized(w, r) {
		return
	}
	f, hdr, err := r.FormFile("upload_file")
	if err != nil {
		http.Error(w, "missing upload_file", http.StatusBadRequest)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{Filename: hdr.Filename, Data: data})
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/html")
	_, _ = io.WriteString(w, "<html>uploaded</html>")
}
