package hfsmx

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigNode is the YAML shape of one tree node (spec.md §7): the region
// topology and selection strategy are data, but a node's behavior is never
// serializable, so Compile resolves Body/Factory by name against a
// caller-supplied registry rather than attempting to unmarshal Go code.
type ConfigNode struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"` // "state", "dynamic", "composite", "orthogonal"
	Strategy string        `yaml:"strategy,omitempty"`
	Children []*ConfigNode `yaml:"children,omitempty"`
}

// TreeConfig is the root of a declarative tree description, parsed with
// gopkg.in/yaml.v3 the way the rest of this package's configuration is.
type TreeConfig struct {
	Root              *ConfigNode `yaml:"root"`
	SubstitutionLimit int         `yaml:"substitutionLimit,omitempty"`
	TaskCapacity      int         `yaml:"taskCapacity,omitempty"`
}

// ParseConfig decodes a YAML tree description.
func ParseConfig(data []byte) (*TreeConfig, error) {
	var cfg TreeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hfsmx: parsing config: %w", err)
	}
	if cfg.Root == nil {
		return nil, fmt.Errorf("hfsmx: config has no root node")
	}
	return &cfg, nil
}

// BodyRegistry maps a ConfigNode's name to the StateBody (or Factory, for a
// "dynamic" node) that implements it. Compile looks names up here because a
// YAML document can describe a tree's shape but never its behavior.
type BodyRegistry struct {
	bodies    map[string]StateBody
	factories map[string]Factory
}

// NewBodyRegistry creates an empty registry.
func NewBodyRegistry() *BodyRegistry {
	return &BodyRegistry{
		bodies:    make(map[string]StateBody),
		factories: make(map[string]Factory),
	}
}

// Register associates name with a StateBody used for "state", "composite",
// and "orthogonal" nodes.
func (r *BodyRegistry) Register(name string, body StateBody) *BodyRegistry {
	r.bodies[name] = body
	return r
}

// RegisterFactory associates name with the Factory used for a "dynamic" node.
func (r *BodyRegistry) RegisterFactory(name string, factory Factory) *BodyRegistry {
	r.factories[name] = factory
	return r
}

func parseStrategy(s string) (SelectionStrategy, error) {
	switch s {
	case "", "composite":
		return StrategyComposite, nil
	case "resumable":
		return StrategyResumable, nil
	case "utilitarian":
		return StrategyUtilitarian, nil
	case "randomutil":
		return StrategyRandomUtil, nil
	default:
		return 0, fmt.Errorf("hfsmx: unknown selection strategy %q", s)
	}
}

func (cn *ConfigNode) toSpec(reg *BodyRegistry) (*NodeSpec, error) {
	children := make([]*NodeSpec, len(cn.Children))
	for i, cc := range cn.Children {
		spec, err := cc.toSpec(reg)
		if err != nil {
			return nil, err
		}
		children[i] = spec
	}

	switch cn.Kind {
	case "state":
		body, ok := reg.bodies[cn.Name]
		if !ok {
			return nil, fmt.Errorf("hfsmx: no StateBody registered for state %q", cn.Name)
		}
		return State(cn.Name, body), nil

	case "dynamic":
		factory, ok := reg.factories[cn.Name]
		if !ok {
			return nil, fmt.Errorf("hfsmx: no Factory registered for dynamic state %q", cn.Name)
		}
		return DynamicState(cn.Name, factory), nil

	case "composite":
		strategy, err := parseStrategy(cn.Strategy)
		if err != nil {
			return nil, err
		}
		return Composite(cn.Name, strategy, reg.bodies[cn.Name], children...), nil

	case "orthogonal":
		return Orthogonal(cn.Name, reg.bodies[cn.Name], children...), nil

	default:
		return nil, fmt.Errorf("hfsmx: unknown node kind %q for %q", cn.Kind, cn.Name)
	}
}

// Compile turns a parsed TreeConfig into a running Machine, resolving every
// node's behavior through reg and applying the config's builder options.
func (cfg *TreeConfig) Compile(reg *BodyRegistry, opts ...func(*Builder)) (*Machine, error) {
	rootSpec, err := cfg.Root.toSpec(reg)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(rootSpec)
	if cfg.SubstitutionLimit > 0 {
		b.SubstitutionLimit(cfg.SubstitutionLimit)
	}
	if cfg.TaskCapacity > 0 {
		b.TaskCapacity(cfg.TaskCapacity)
	}
	for _, opt := range opts {
		opt(b)
	}

	return b.Build()
}
