package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid keymap", "keymap.yaml", InvalidConfig, nil)
	assert.Equal(t, "invalid keymap: keymap.yaml", configErr.Error())
	assert.Equal(t, "keymap.yaml", configErr.Param())
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsMissingKeymap(configErr))

	origErr := fmt.Errorf("yaml: line 3: did not find expected key")
	configErr = NewConfigError("invalid keymap", "keymap.yaml", InvalidConfig, origErr)
	assert.Equal(t, "invalid keymap: keymap.yaml: yaml: line 3: did not find expected key", configErr.Error())
	assert.Equal(t, origErr, Unwrap(configErr))
}

func TestMissingKeymap(t *testing.T) {
	err := NewMissingKeymapError("obslog")
	assert.Equal(t, "missing keymap: obslog", err.Error())
	assert.True(t, IsMissingKeymap(err))
	assert.True(t, IsMissingKeymap(Wrap(err, "dispatch")))
	assert.False(t, IsInvalidConfig(err))
	assert.Equal(t, MissingKeymap, KindOf(Wrap(err, "dispatch")))
}

func TestTemplateError(t *testing.T) {
	err := NewTemplateError("missing value for \"commit:focused\"", "{commit:focused}", TemplateRender, nil)
	assert.Equal(t, `missing value for "commit:focused" in "{commit:focused}"`, err.Error())
	assert.Equal(t, "{commit:focused}", err.Template())
	assert.True(t, IsTemplateError(err))
	assert.Equal(t, TemplateRender, KindOf(err))
}

func TestProcessError(t *testing.T) {
	base := errors.New("exec: \"jj\": executable file not found in $PATH")
	err := NewProcessError("failed to start", "jj", ProcessFailed, base)
	assert.Equal(t, "jj: failed to start: exec: \"jj\": executable file not found in $PATH", err.Error())
	assert.Equal(t, "jj", err.Program())
	assert.True(t, Is(err, base))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, Unknown},
		{"plain", errors.New("plain"), Unknown},
		{"file", NewFileError("not found", "/x", FileNotFound, nil), FileNotFound},
		{"expression", NewExpressionError("bad payload", nil), InvalidExpression},
		{"wrapped clipboard", Wrap(NewProcessError("unsupported", "clipboard", ClipboardFailed, nil), "yank"), ClipboardFailed},
		{"fmt wrapped", fmt.Errorf("outer: %w", NewMissingKeymapError("normal")), MissingKeymap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.Equal(t, "missing keymap", MissingKeymap.String())
	assert.True(t, IsInvalidExpression(NewExpressionError("bad", nil)))
}
