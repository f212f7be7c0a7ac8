package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		err := Error("Test Error", "This is a test error", []string{})
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
	})

	t.Run("returns error with title for multiple suggestions", func(t *testing.T) {
		err := Error("Test Error", "Explanation", []string{
			"First option",
			"Second option",
		})
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
	})
}

func TestErrorWithContext(t *testing.T) {
	err := ErrorWithContext("Test Error", "Explanation", map[string]string{"Settings": "settings.yml"}, []string{"Fix it"})
	require.Error(t, err)
	require.Equal(t, "Test Error", err.Error())
}

func TestLines(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	var buf bytes.Buffer
	Heading(&buf, "==== nc ====")
	ErrorLine(&buf, " bad")
	WarningLine(&buf, " meh")
	OKLine(&buf, "a.yml OK!")
	Line(&buf, "plain")

	assert.Equal(t, "==== nc ====\n bad\n meh\na.yml OK!\nplain\n", buf.String())
}

func TestLines_Colored(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })

	var buf bytes.Buffer
	ErrorLine(&buf, "bad")
	assert.Contains(t, buf.String(), "\x1b[31m")
	assert.Contains(t, buf.String(), "bad")
}
