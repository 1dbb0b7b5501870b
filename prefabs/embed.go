package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Dir is the on-disk override directory. A file there shadows the embedded
// copy of the same name, which is what makes hot reload useful.
var Dir = "prefabs"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Load reads a spec file such as "ai.yaml" or "prefabs/ai.yaml".
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, specPath(name))
}

// LoadScript reads a curve script. Bare names resolve under scripts/.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, scriptPath(name))
}

// ModTime is the modification time of the disk override, if there is one.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(specPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(embedded fs.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, clean)
}

func specPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "prefabs/")
	return path.Clean(s)
}

func scriptPath(name string) string {
	s := specPath(name)
	s = strings.TrimPrefix(s, "scripts/")
	return path.Join("scripts", s)
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

// IsScript reports whether a changed file is a curve script.
func IsScript(name string) bool {
	return isScriptFile(name)
}

// BaseName strips directories so watcher names can be compared to spec names.
func BaseName(name string) string {
	return path.Base(filepath.ToSlash(name))
}
