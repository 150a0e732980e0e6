package draft

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/gabriel-vasile/mimetype"
)

// Staged is a captured file waiting for upload.
type Staged struct {
	LocalRef string
	Kind     journal.MediaKind
}

// Staging is the ordered media buffer for the current draft. It is not
// persisted; closing the client loses it.
type Staging struct {
	items []Staged
}

// Add appends an item. Duplicates are allowed.
func (s Staging) Add(localRef string, kind journal.MediaKind) Staging {
	items := make([]Staged, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return Staging{items: append(items, Staged{LocalRef: localRef, Kind: kind})}
}

// RemoveAt drops item i. An out of range index leaves the buffer unchanged.
func (s Staging) RemoveAt(i int) Staging {
	if i < 0 || i >= len(s.items) {
		return s
	}
	items := make([]Staged, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	return Staging{items: items}
}

func (s Staging) Len() int { return len(s.items) }

// Items returns a copy of the staged items in order.
func (s Staging) Items() []Staged {
	out := make([]Staged, len(s.items))
	copy(out, s.items)
	return out
}

func (s Staging) Clear() Staging { return Staging{} }

// KindFromMIME maps a MIME type to a media kind.
func KindFromMIME(mime string) (journal.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return journal.KindImage, true
	case strings.HasPrefix(mime, "video/"):
		return journal.KindVideo, true
	case strings.HasPrefix(mime, "audio/"):
		return journal.KindAudio, true
	}
	return "", false
}

// DetectKind sniffs the kind from file content.
func DetectKind(b []byte) (journal.MediaKind, bool) {
	return detected(mimetype.Detect(b))
}

// DetectFileKind sniffs the kind from the head of the file at path.
func DetectFileKind(path string) (journal.MediaKind, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	kind, ok := detected(mt)
	if !ok {
		return "", fmt.Errorf("%s: unsupported media type %s", path, mt.String())
	}
	return kind, nil
}

// detected walks up the MIME hierarchy so that e.g. audio/x-m4a inside an
// mp4 container still classifies.
func detected(mt *mimetype.MIME) (journal.MediaKind, bool) {
	for m := mt; m != nil; m = m.Parent() {
		if kind, ok := KindFromMIME(m.String()); ok {
			return kind, true
		}
	}
	return "", false
}

// ExpandPattern resolves a path or a doublestar glob ("inbox/**/*.jpg") to
// matching files in lexical order.
func ExpandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}
