package controller

// Phase is the state of the path follower.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFollowingPath
	PhaseOnFinalTile
	PhaseReachedEndOfPath
	PhaseUseTool
	PhaseReleaseTool
	PhaseDoAction
	PhaseFinishAction
	PhaseUsingJoystick
	PhasePendingComplete
	PhaseComplete
)

var phaseNames = map[Phase]string{
	PhaseIdle:             "idle",
	PhaseFollowingPath:    "following_path",
	PhaseOnFinalTile:      "on_final_tile",
	PhaseReachedEndOfPath: "reached_end_of_path",
	PhaseUseTool:          "use_tool",
	PhaseReleaseTool:      "release_tool",
	PhaseDoAction:         "do_action",
	PhaseFinishAction:     "finish_action",
	PhaseUsingJoystick:    "using_joystick",
	PhasePendingComplete:  "pending_complete",
	PhaseComplete:         "complete",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// moving reports whether the phase walks the character along its route.
func (p Phase) moving() bool {
	return p == PhaseFollowingPath || p == PhaseOnFinalTile
}
