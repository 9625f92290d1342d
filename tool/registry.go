package tool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/convokehq/convoke/logging"
)

// ErrNotFound is returned when a qualified name resolves to no usable tool:
// no manifest file, an unreadable manifest, a manifest missing its
// description, or one referencing an unregistered implementation. All of
// these are the same condition to callers.
var ErrNotFound = errors.New("tool not found")

// Manifest is the on-disk description of a discoverable tool. One YAML file
// per tool: shared tools under the tools directory, agent-scoped tools under
// that agent's folder inside the agents directory.
type Manifest struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Impl        string         `yaml:"impl"`
	Config      map[string]any `yaml:"config,omitempty"`
}

// Registry resolves qualified tool names to callable tools. Resolution order
// for "name": the shared pool first; for "folder/name": the named agent's
// private folder. First successful resolution is cached for the process
// lifetime; failed resolutions are never cached, so a manifest added later
// becomes visible without restart.
type Registry struct {
	mu        sync.Mutex
	toolsDir  string
	agentsDir string
	cache     map[string]Tool
	extra     map[string]Factory
	logger    logging.Logger
	loads     int
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives load and invocation diagnostics. Defaults to NoOp.
	Logger logging.Logger

	// Impls overlays instance-scoped implementation factories on top of the
	// globally registered ones. Mainly for tests.
	Impls map[string]Factory
}

// NewRegistry constructs a Registry over the shared tools directory and the
// agents directory (for per-agent pools).
func NewRegistry(toolsDir, agentsDir string, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		toolsDir:  toolsDir,
		agentsDir: agentsDir,
		cache:     make(map[string]Tool),
		extra:     opts.Impls,
		logger:    opts.Logger,
	}
}

// Resolve returns the tool registered under the qualified name, loading and
// caching it on first use. Returns ErrNotFound (possibly wrapped) when the
// name does not correspond to a loadable tool.
func (r *Registry) Resolve(qualifiedName string) (Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(qualifiedName)
}

func (r *Registry) resolveLocked(qualifiedName string) (Tool, error) {
	if t, ok := r.cache[qualifiedName]; ok {
		return t, nil
	}

	path := r.manifestPath(qualifiedName)
	t, err := r.load(qualifiedName, path)
	if err != nil {
		return nil, err
	}

	r.cache[qualifiedName] = t
	return t, nil
}

// manifestPath maps a qualified name to its manifest file. Names containing a
// separator address an agent's private folder; bare names address the shared
// pool.
func (r *Registry) manifestPath(qualifiedName string) string {
	if folder, bare, ok := strings.Cut(qualifiedName, "/"); ok {
		return filepath.Join(r.agentsDir, folder, bare+".yaml")
	}
	return filepath.Join(r.toolsDir, qualifiedName+".yaml")
}

func (r *Registry) load(qualifiedName, path string) (Tool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}

	r.loads++

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		r.logger.Warn("tool manifest unreadable", "tool", qualifiedName, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}
	if m.Description == "" || m.Impl == "" {
		r.logger.Warn("tool manifest incomplete", "tool", qualifiedName, "path", path)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}

	factory, ok := r.extra[m.Impl]
	if !ok {
		factory, ok = lookupImpl(m.Impl)
	}
	if !ok {
		r.logger.Warn("tool manifest references unknown implementation", "tool", qualifiedName, "impl", m.Impl)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}

	invoke, err := factory(m.Config)
	if err != nil {
		r.logger.Warn("tool implementation failed to initialize", "tool", qualifiedName, "impl", m.Impl, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}

	r.logger.Debug("tool loaded", "tool", qualifiedName, "impl", m.Impl)

	return &manifestTool{name: qualifiedName, description: m.Description, invoke: invoke}, nil
}

// Invalidate drops the cache entry for a qualified name so the next Resolve
// re-reads its manifest. Unknown names are a no-op.
func (r *Registry) Invalidate(qualifiedName string) {
	r.mu.Lock()
	delete(r.cache, qualifiedName)
	r.mu.Unlock()
}

// Loads reports how many manifest loads have occurred. Exposed for tests
// asserting cache behavior.
func (r *Registry) Loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// ListAvailable enumerates every discoverable tool in both pools, forcing a
// load of each manifest. This walks all tool files on every call; listing is
// an infrequent operation and freshness matters more than speed here.
func (r *Registry) ListAvailable() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Descriptor

	for _, name := range manifestNames(r.toolsDir) {
		if t, err := r.resolveLocked(name); err == nil {
			out = append(out, Descriptor{Name: t.Name(), Description: t.Description()})
		}
	}

	entries, err := os.ReadDir(r.agentsDir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		folder := e.Name()
		for _, name := range manifestNames(filepath.Join(r.agentsDir, folder)) {
			qualified := folder + "/" + name
			if t, err := r.resolveLocked(qualified); err == nil {
				out = append(out, Descriptor{Name: t.Name(), Description: t.Description()})
			}
		}
	}

	return out
}

// manifestNames lists the bare tool names (file stem of each .yaml) in dir.
func manifestNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// manifestTool binds a manifest to its resolved implementation.
type manifestTool struct {
	name        string
	description string
	invoke      InvokeFunc
}

func (t *manifestTool) Name() string        { return t.name }
func (t *manifestTool) Description() string { return t.description }

func (t *manifestTool) Invoke(ctx context.Context, args []string) (string, error) {
	return t.invoke(ctx, args)
}
