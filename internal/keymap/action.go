package keymap

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/noahmayr/vjj/internal/template"
	"github.com/noahmayr/vjj/pkg/types"
)

// Evaluator runs shell snippets for Shell commands.
type Evaluator interface {
	Eval(script string) (string, error)
}

// UserCommand produces a string: either the text itself, or the output of
// running the text with the shell.
//
// In YAML a plain command is a scalar and a shell command is `{shell: ...}`.
type UserCommand struct {
	Text  string
	Shell bool
}

// Plain returns a command evaluating to text.
func Plain(text string) UserCommand { return UserCommand{Text: text} }

// Shell returns a command evaluating to the output of script.
func Shell(script string) UserCommand { return UserCommand{Text: script, Shell: true} }

// Render substitutes placeholders in the command text.
func (c UserCommand) Render(values template.Values) (UserCommand, error) {
	text, err := template.Render(c.Text, values)
	if err != nil {
		return UserCommand{}, err
	}
	return UserCommand{Text: text, Shell: c.Shell}, nil
}

// Evaluate produces the value of an already rendered command.
func (c UserCommand) Evaluate(ev Evaluator) (string, error) {
	if !c.Shell {
		return c.Text, nil
	}
	return ev.Eval(c.Text)
}

// Resolve renders then evaluates the command.
func (c UserCommand) Resolve(values template.Values, ev Evaluator) (string, error) {
	rendered, err := c.Render(values)
	if err != nil {
		return "", err
	}
	return rendered.Evaluate(ev)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *UserCommand) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = Plain(node.Value)
		return nil
	case yaml.MappingNode:
		var shell struct {
			Shell *string `yaml:"shell"`
		}
		if err := node.Decode(&shell); err != nil {
			return err
		}
		if shell.Shell == nil || len(node.Content) != 2 {
			return fmt.Errorf("line %d: command mapping must have exactly one key, shell", node.Line)
		}
		*c = Shell(*shell.Shell)
		return nil
	}
	return fmt.Errorf("line %d: command must be a string or {shell: ...}", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (c UserCommand) MarshalYAML() (interface{}, error) {
	if c.Shell {
		return map[string]string{"shell": c.Text}, nil
	}
	return c.Text, nil
}

// UserMode is the target of a mode switch. Obslog carries the command
// producing the revision to follow.
type UserMode struct {
	Kind     types.ModeKind
	Revision UserCommand
}

// Resolve turns the declared mode into a concrete one.
func (m UserMode) Resolve(values template.Values, ev Evaluator) (types.Mode, error) {
	switch m.Kind {
	case types.Normal:
		return types.NormalMode(), nil
	case types.Revset:
		return types.RevsetMode(), nil
	}
	rev, err := m.Revision.Resolve(values, ev)
	if err != nil {
		return types.Mode{}, err
	}
	return types.ObslogMode(rev), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *UserMode) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case types.Normal.String():
			*m = UserMode{Kind: types.Normal}
			return nil
		case types.Revset.String():
			*m = UserMode{Kind: types.Revset}
			return nil
		}
	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == types.Obslog.String() {
			var rev UserCommand
			if err := node.Content[1].Decode(&rev); err != nil {
				return err
			}
			*m = UserMode{Kind: types.Obslog, Revision: rev}
			return nil
		}
	}
	return fmt.Errorf("line %d: mode must be normal, revset or {obslog: ...}", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (m UserMode) MarshalYAML() (interface{}, error) {
	if m.Kind == types.Obslog {
		return map[string]UserCommand{types.Obslog.String(): m.Revision}, nil
	}
	return m.Kind.String(), nil
}

// ActionKind is a user action name.
type ActionKind int

const (
	Quit ActionKind = iota
	ReloadLog
	SwitchMode
	Jujutsu
	JujutsuPaged
	JujutsuInteractive
	Yank
	ChangeRevset
	Accept
)

var actionKindNames = map[ActionKind]string{
	Quit:               "quit",
	ReloadLog:          "reload_log",
	SwitchMode:         "mode",
	Jujutsu:            "jj",
	JujutsuPaged:       "jjp",
	JujutsuInteractive: "jji",
	Yank:               "yank",
	ChangeRevset:       "change_revset",
	Accept:             "accept",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

func parseActionKind(name string) (ActionKind, bool) {
	for k, n := range actionKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// UserAction is one declared action of a keybind. Mode is set for
// SwitchMode, Args for the jj variants and Command for yank, change_revset
// and accept.
type UserAction struct {
	Kind    ActionKind
	Mode    UserMode
	Args    []string
	Command UserCommand
}

// Templates lists every template string the action renders.
func (a UserAction) Templates() []string {
	switch a.Kind {
	case SwitchMode:
		if a.Mode.Kind == types.Obslog {
			return []string{a.Mode.Revision.Text}
		}
	case Jujutsu, JujutsuPaged, JujutsuInteractive:
		return a.Args
	case Yank, ChangeRevset, Accept:
		return []string{a.Command.Text}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Argument-less actions are
// scalars, the rest single-key mappings such as `jj: [new]`.
func (a *UserAction) UnmarshalYAML(node *yaml.Node) error {
	var name string
	var value *yaml.Node
	switch node.Kind {
	case yaml.ScalarNode:
		name = node.Value
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: action mapping must have exactly one key", node.Line)
		}
		name, value = node.Content[0].Value, node.Content[1]
	default:
		return fmt.Errorf("line %d: action must be a string or a mapping", node.Line)
	}

	kind, ok := parseActionKind(name)
	if !ok {
		return fmt.Errorf("line %d: unknown action %q", node.Line, name)
	}
	needsValue := kind != Quit && kind != ReloadLog
	switch {
	case needsValue && value == nil:
		return fmt.Errorf("line %d: action %q needs a value", node.Line, name)
	case !needsValue && value != nil:
		return fmt.Errorf("line %d: action %q takes no value", node.Line, name)
	}

	out := UserAction{Kind: kind}
	switch kind {
	case SwitchMode:
		if err := value.Decode(&out.Mode); err != nil {
			return err
		}
	case Jujutsu, JujutsuPaged, JujutsuInteractive:
		if err := value.Decode(&out.Args); err != nil {
			return fmt.Errorf("line %d: %s expects a list of arguments: %w", value.Line, name, err)
		}
	case Yank, ChangeRevset, Accept:
		if err := value.Decode(&out.Command); err != nil {
			return err
		}
	}
	*a = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a UserAction) MarshalYAML() (interface{}, error) {
	name := a.Kind.String()
	switch a.Kind {
	case Quit, ReloadLog:
		return name, nil
	case SwitchMode:
		return map[string]UserMode{name: a.Mode}, nil
	case Jujutsu, JujutsuPaged, JujutsuInteractive:
		args := a.Args
		if args == nil {
			args = []string{}
		}
		return map[string][]string{name: args}, nil
	case Yank, ChangeRevset, Accept:
		return map[string]UserCommand{name: a.Command}, nil
	}
	return nil, fmt.Errorf("unknown action kind %d", int(a.Kind))
}
