package playback

// CommandKind identifies a user intent.
type CommandKind int

const (
	CmdTogglePlay CommandKind = iota
	CmdSeekBegin
	CmdSeekDrag
	CmdSeekCommit
	CmdSkip
	CmdSetVolume
	CmdAdjustVolume
	CmdToggleMute
	CmdToggleFullscreen
	CmdActivity
	CmdToggleLegend
	CmdRetry
	CmdRequestTitle
)

func (k CommandKind) String() string {
	switch k {
	case CmdTogglePlay:
		return "toggle-play"
	case CmdSeekBegin:
		return "seek-begin"
	case CmdSeekDrag:
		return "seek-drag"
	case CmdSeekCommit:
		return "seek-commit"
	case CmdSkip:
		return "skip"
	case CmdSetVolume:
		return "set-volume"
	case CmdAdjustVolume:
		return "adjust-volume"
	case CmdToggleMute:
		return "toggle-mute"
	case CmdToggleFullscreen:
		return "toggle-fullscreen"
	case CmdActivity:
		return "activity"
	case CmdToggleLegend:
		return "toggle-legend"
	case CmdRetry:
		return "retry"
	case CmdRequestTitle:
		return "request-title"
	default:
		return "unknown"
	}
}

// Command is a user intent sent to a Controller. Value carries the
// argument of parametric commands: a scrubber fraction, a volume, a
// volume delta, or a skip direction (+1/-1).
type Command struct {
	Kind  CommandKind
	Value float64
}

func TogglePlay() Command               { return Command{Kind: CmdTogglePlay} }
func SeekBegin() Command                { return Command{Kind: CmdSeekBegin} }
func SeekDrag(fraction float64) Command { return Command{Kind: CmdSeekDrag, Value: fraction} }
func SeekCommit() Command               { return Command{Kind: CmdSeekCommit} }
func SkipForward() Command              { return Command{Kind: CmdSkip, Value: 1} }
func SkipBack() Command                 { return Command{Kind: CmdSkip, Value: -1} }
func SetVolume(v float64) Command       { return Command{Kind: CmdSetVolume, Value: v} }
func VolumeUp() Command                 { return Command{Kind: CmdAdjustVolume, Value: 1} }
func VolumeDown() Command               { return Command{Kind: CmdAdjustVolume, Value: -1} }
func ToggleMute() Command               { return Command{Kind: CmdToggleMute} }
func ToggleFullscreen() Command         { return Command{Kind: CmdToggleFullscreen} }
func Activity() Command                 { return Command{Kind: CmdActivity} }
func ToggleLegend() Command             { return Command{Kind: CmdToggleLegend} }
func Retry() Command                    { return Command{Kind: CmdRetry} }
func RequestTitle() Command             { return Command{Kind: CmdRequestTitle} }
