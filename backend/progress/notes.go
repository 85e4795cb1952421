package progress

import (
	"maps"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
)

type noteUndo struct {
	text    string
	present bool
	gen     uint64
}

// Notes holds free-text notes keyed by progress key. An empty note is
// stored as an empty string since merge writes cannot delete fields.
type Notes struct {
	path   string
	w      *Writer
	log    *log.Logger
	onFail func(*PersistFailedError)

	mu    sync.RWMutex
	notes map[string]string
	gen   map[string]uint64
	seq   uint64
}

func NewNotes(path string, w *Writer, opts ...Option) *Notes {
	o := newOptions(opts)
	return &Notes{
		path:   path,
		w:      w,
		log:    o.logger,
		onFail: o.onFail,
		notes:  map[string]string{},
		gen:    map[string]uint64{},
	}
}

func (n *Notes) Load(remote map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = maps.Clone(remote)
	if n.notes == nil {
		n.notes = map[string]string{}
	}
	n.gen = map[string]uint64{}
}

func (n *Notes) Get(key string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.notes[key]
}

// All returns the non-empty notes.
func (n *Notes) All() map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]string, len(n.notes))
	for k, v := range n.notes {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (n *Notes) Save(key, text string) {
	n.mu.Lock()
	old, present := n.notes[key]
	n.seq++
	undo := noteUndo{text: old, present: present, gen: n.seq}
	n.notes[key] = text
	n.gen[key] = n.seq
	err := n.w.Enqueue(n.path, docstore.Document{key: text}, func(err error) { n.settle(key, undo, err) })
	n.mu.Unlock()
	if err != nil {
		n.settle(key, undo, err)
	}
}

func (n *Notes) settle(key string, undo noteUndo, err error) {
	if err == nil {
		return
	}
	n.mu.Lock()
	if n.gen[key] == undo.gen {
		if undo.present {
			n.notes[key] = undo.text
		} else {
			delete(n.notes, key)
		}
	}
	n.mu.Unlock()
	n.log.Error("note write failed", "path", n.path, "key", key, "err", err)
	n.onFail(&PersistFailedError{Path: n.path, Keys: []string{key}, Err: err})
}
