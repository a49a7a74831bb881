package playback

// Shortcut binds one or more key names to a command. Key names follow
// terminal key naming: " " for space, "left", "right", "up", "down".
type Shortcut struct {
	Keys    []string
	Help    string
	Command Command
}

// Shortcuts is the keyboard map of the player, in legend order.
var Shortcuts = []Shortcut{
	{Keys: []string{" ", "space", "k"}, Help: "play/pause", Command: TogglePlay()},
	{Keys: []string{"left", "j"}, Help: "back 10s", Command: SkipBack()},
	{Keys: []string{"right", "l"}, Help: "forward 10s", Command: SkipForward()},
	{Keys: []string{"up"}, Help: "volume +", Command: VolumeUp()},
	{Keys: []string{"down"}, Help: "volume -", Command: VolumeDown()},
	{Keys: []string{"m"}, Help: "mute", Command: ToggleMute()},
	{Keys: []string{"f"}, Help: "fullscreen", Command: ToggleFullscreen()},
	{Keys: []string{"?"}, Help: "shortcuts", Command: ToggleLegend()},
}

var shortcutIndex = func() map[string]Command {
	idx := make(map[string]Command)
	for _, s := range Shortcuts {
		for _, k := range s.Keys {
			idx[k] = s.Command
		}
	}
	return idx
}()

// Lookup resolves a key to a player command. Keys are never bound while
// a text input has focus, so typing into a search box cannot drive the
// player.
func Lookup(key string, inputFocused bool) (Command, bool) {
	if inputFocused {
		return Command{}, false
	}
	cmd, ok := shortcutIndex[key]
	return cmd, ok
}
