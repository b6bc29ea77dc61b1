package assets

import (
	"io/fs"
	"testing"

	"entityoverlay/internal/overlay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSContainsScripts(t *testing.T) {
	data, err := fs.ReadFile(FS(), "behaviors.js")
	require.NoError(t, err)
	assert.Contains(t, string(data), "lastIndexOf('0')")
	assert.Contains(t, string(data), "'/ajax/'")

	data, err = fs.ReadFile(FS(), "commands.js")
	require.NoError(t, err)
	assert.Contains(t, string(data), "entityOverlay")
	assert.Contains(t, string(data), "entity-overlay__container")
}

func TestScriptsOrder(t *testing.T) {
	assert.Equal(t, []string{"/assets/commands.js", "/assets/behaviors.js"},
		Scripts([]string{overlay.LibraryBehaviors, "other/lib", overlay.LibraryCommands}))
	assert.Empty(t, Scripts(nil))
}
