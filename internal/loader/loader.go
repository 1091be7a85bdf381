// Package loader turns scene files into the source scene model.
//
// The lifecycle follows the SDK importer: Open checks the file can be read
// and is of a supported version, Import builds the scene, Close releases
// what Open held.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"fbx-scene-import/internal/scene"
)

var (
	// ErrInitialization: the file could not be opened or recognized.
	ErrInitialization = errors.New("importer initialization failed")

	// ErrInvalidFileVersion: the file is newer or older than supported.
	ErrInvalidFileVersion = errors.New("invalid file version")

	// ErrImport: the file was recognized but its contents could not be read.
	ErrImport = errors.New("scene import failed")
)

// Format identifies the on-disk encoding of a scene.
type Format int

const (
	FormatJSON Format = iota
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatGLTF:
		return "gltf"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extensions lists the file extensions Open accepts.
var Extensions = []string{".json", ".gltf", ".glb"}

// Supported reports whether path has an extension Open accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsScene reports whether path is worth handing to Open: a glTF file, or a
// JSON file whose top-level "format" names DocumentFormat. Other JSON files
// (configs, manifests) are not scenes. Only the leading keys are read, so a
// scene truncated after its header still counts.
func IsScene(path string) bool {
	if !Supported(path) {
		return false
	}
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return false
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return false
		}
		if key == "format" {
			var v string
			return dec.Decode(&v) == nil && v == DocumentFormat
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return false
		}
	}
	return false
}

// Importer holds one opened scene file.
type Importer struct {
	path    string
	format  Format
	version string

	raw []byte
	doc *gltf.Document
}

// Open recognizes path by extension and validates its header.
func Open(path string) (*Importer, error) {
	im := &Importer{path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		im.format = FormatJSON
		if err := im.openJSON(); err != nil {
			return nil, err
		}
	case ".gltf", ".glb":
		im.format = FormatGLTF
		if err := im.openGLTF(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("loader: %s: unsupported extension: %w", path, ErrInitialization)
	}
	return im, nil
}

func (im *Importer) openJSON() error {
	raw, err := os.ReadFile(im.path)
	if err != nil {
		return fmt.Errorf("loader: read %s: %v: %w", im.path, err, ErrInitialization)
	}
	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return fmt.Errorf("loader: header %s: %v: %w", im.path, err, ErrInitialization)
	}
	if h.Format != DocumentFormat {
		return fmt.Errorf("loader: %s: format %q is not %q: %w", im.path, h.Format, DocumentFormat, ErrInitialization)
	}
	im.version = fmt.Sprintf("%d.%d.%d", h.Version/1000, h.Version/100%10, h.Version%100)
	if h.Version < MinFileVersion || h.Version > MaxFileVersion {
		return fmt.Errorf("loader: %s: file version %s: %w", im.path, im.version, ErrInvalidFileVersion)
	}
	im.raw = raw
	return nil
}

func (im *Importer) openGLTF() error {
	doc, err := gltf.Open(im.path)
	if err != nil {
		return fmt.Errorf("loader: open %s: %v: %w", im.path, err, ErrInitialization)
	}
	im.version = "2.0"
	if doc.Asset.Version != "" {
		im.version = doc.Asset.Version
	}
	if !strings.HasPrefix(im.version, "2.") {
		return fmt.Errorf("loader: %s: glTF version %s: %w", im.path, im.version, ErrInvalidFileVersion)
	}
	im.doc = doc
	return nil
}

// Path returns the file Open was given.
func (im *Importer) Path() string { return im.path }

// Format returns the detected encoding.
func (im *Importer) Format() Format { return im.format }

// FileVersion returns the version read from the file header.
func (im *Importer) FileVersion() string { return im.version }

// Import builds the scene. The Importer can be closed afterwards; the
// returned scene does not reference it.
func (im *Importer) Import() (*scene.Scene, error) {
	if im.raw == nil && im.doc == nil {
		return nil, fmt.Errorf("loader: %s: importer is closed: %w", im.path, ErrImport)
	}
	var (
		s   *scene.Scene
		err error
	)
	switch im.format {
	case FormatJSON:
		s, err = decodeDocument(im.raw)
	case FormatGLTF:
		s, err = convertGLTF(im.doc)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: import %s: %v: %w", im.path, err, ErrImport)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(im.path), filepath.Ext(im.path))
	}
	return s, nil
}

// Close drops the file contents.
func (im *Importer) Close() error {
	im.raw = nil
	im.doc = nil
	return nil
}
